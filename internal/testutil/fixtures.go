package testutil

import (
	"time"

	"github.com/herd-ag/herdstore/internal/record"
)

// Epoch is the base time of every fixture timestamp.
var Epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// At returns Epoch plus d as a pointer, for optional timestamp fields.
func At(d time.Duration) *time.Time {
	t := Epoch.Add(d)
	return &t
}

// Agents returns three agent executions, two of them by "mason".
func Agents() []record.Agent {
	return []record.Agent{
		{
			ID:        "agent-1",
			Agent:     "mason",
			Model:     "claude-sonnet",
			TicketID:  Ptr("HERD-101"),
			State:     record.AgentStateCompleted,
			StartedAt: At(0),
			EndedAt:   At(12 * time.Minute),
		},
		{
			ID:        "agent-2",
			Agent:     "fiona",
			Model:     "claude-opus",
			State:     record.AgentStateRunning,
			SpawnedBy: Ptr("agent-1"),
			StartedAt: At(time.Hour),
		},
		{
			ID:    "agent-3",
			Agent: "mason",
			Model: "claude-haiku",
			State: record.AgentStateSpawning,
		},
	}
}

// Decisions returns three decisions scoped architecture, process, process.
func Decisions() []record.Decision {
	return []record.Decision{
		{
			ID:            "decision-1",
			Title:         "Store execution history in DuckDB",
			Body:          "Agent runs are append-heavy and queried analytically.",
			DecisionMaker: "steve",
			Principle:     Ptr("boring technology"),
			Scope:         Ptr("architecture"),
			Status:        "accepted",
		},
		{
			ID:            "decision-2",
			Title:         "Review every agent PR",
			Body:          "A human approves before merge.",
			DecisionMaker: "steve",
			Scope:         Ptr("process"),
			Status:        "accepted",
		},
		{
			ID:            "decision-3",
			Title:         "Weekly retro",
			Body:          "Look back at failed runs every Friday.",
			DecisionMaker: "mason",
			Scope:         Ptr("process"),
		},
	}
}
