package record

import (
	"fmt"
	"time"
)

// AgentState is the lifecycle state of an agent execution.
type AgentState string

const (
	AgentStateSpawning  AgentState = "spawning"
	AgentStateRunning   AgentState = "running"
	AgentStateCompleted AgentState = "completed"
	AgentStateFailed    AgentState = "failed"
	AgentStateStopped   AgentState = "stopped"
)

// AgentStates lists every valid AgentState in lifecycle order.
var AgentStates = []AgentState{
	AgentStateSpawning,
	AgentStateRunning,
	AgentStateCompleted,
	AgentStateFailed,
	AgentStateStopped,
}

func (s AgentState) String() string {
	return string(s)
}

// Terminal reports whether the state ends an execution.
func (s AgentState) Terminal() bool {
	return s == AgentStateCompleted || s == AgentStateFailed || s == AgentStateStopped
}

// Agent records one execution of an agent.
type Agent struct {
	ID        string     `json:"id" yaml:"id"`
	Agent     string     `json:"agent" yaml:"agent"`
	Model     string     `json:"model" yaml:"model"`
	TicketID  *string    `json:"ticket_id,omitempty" yaml:"ticket_id,omitempty"`
	State     AgentState `json:"state" yaml:"state"`
	SpawnedBy *string    `json:"spawned_by,omitempty" yaml:"spawned_by,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
}

// AgentType describes Agent records.
var AgentType = &Type{
	Name:       "agent",
	PrimaryKey: "id",
	Fields: []Field{
		{Name: "id", Kind: KindString},
		{Name: "agent", Kind: KindString},
		{Name: "model", Kind: KindString},
		{Name: "ticket_id", Kind: KindString, Optional: true},
		{Name: "state", Kind: KindEnum, Enum: agentStateNames()},
		{Name: "spawned_by", Kind: KindString, Optional: true},
		{Name: "started_at", Kind: KindTimestamp, Optional: true},
		{Name: "ended_at", Kind: KindTimestamp, Optional: true},
	},
}

func init() {
	AgentType.New = func(values map[string]any) (Record, error) {
		return NewAgent(values)
	}
}

func agentStateNames() []string {
	names := make([]string, len(AgentStates))
	for i, s := range AgentStates {
		names[i] = string(s)
	}
	return names
}

// RecordType implements Record.
func (a Agent) RecordType() *Type {
	return AgentType
}

// Values implements Record.
func (a Agent) Values() map[string]any {
	return map[string]any{
		"id":         a.ID,
		"agent":      a.Agent,
		"model":      a.Model,
		"ticket_id":  ptrValue(a.TicketID),
		"state":      a.effectiveState(),
		"spawned_by": ptrValue(a.SpawnedBy),
		"started_at": ptrValue(a.StartedAt),
		"ended_at":   ptrValue(a.EndedAt),
	}
}

// NewAgent builds an Agent from logical field values. A missing state
// defaults to AgentStateSpawning.
func NewAgent(values map[string]any) (Agent, error) {
	var (
		a   Agent
		err error
	)
	if err := checkKnown(AgentType, values); err != nil {
		return Agent{}, err
	}
	if a.ID, err = stringValue(values, "id"); err != nil {
		return Agent{}, err
	}
	if a.Agent, err = stringValue(values, "agent"); err != nil {
		return Agent{}, err
	}
	if a.Model, err = stringValue(values, "model"); err != nil {
		return Agent{}, err
	}
	if a.TicketID, err = optionalString(values, "ticket_id"); err != nil {
		return Agent{}, err
	}
	if a.SpawnedBy, err = optionalString(values, "spawned_by"); err != nil {
		return Agent{}, err
	}
	if a.StartedAt, err = optionalTime(values, "started_at"); err != nil {
		return Agent{}, err
	}
	if a.EndedAt, err = optionalTime(values, "ended_at"); err != nil {
		return Agent{}, err
	}

	a.State = AgentStateSpawning
	switch s := values["state"].(type) {
	case nil:
	case AgentState:
		a.State = s
	case string:
		a.State = AgentState(s)
	default:
		return Agent{}, fmt.Errorf("field %q: expected agent state, got %T", "state", s)
	}
	if !a.State.valid() {
		return Agent{}, fmt.Errorf("field %q: invalid agent state %q", "state", a.State)
	}

	return a, nil
}

// effectiveState treats the zero state as AgentStateSpawning, matching NewAgent.
func (a Agent) effectiveState() AgentState {
	if a.State == "" {
		return AgentStateSpawning
	}
	return a.State
}

func (s AgentState) valid() bool {
	for _, v := range AgentStates {
		if v == s {
			return true
		}
	}
	return false
}
