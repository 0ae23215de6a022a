package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	typ, err := Lookup("agent")
	require.NoError(t, err)
	assert.Same(t, AgentType, typ)

	typ, err = Lookup("decision")
	require.NoError(t, err)
	assert.Same(t, DecisionType, typ)

	_, err = Lookup("ticket")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent, decision")
}

func TestTypes_ReturnsCopy(t *testing.T) {
	types := Types()
	require.Len(t, types, 2)
	types[0] = nil
	assert.NotNil(t, Types()[0])
}

func TestType_Field(t *testing.T) {
	f, ok := AgentType.Field("state")
	require.True(t, ok)
	assert.Equal(t, KindEnum, f.Kind)
	assert.True(t, f.Allows("running"))
	assert.False(t, f.Allows("sleeping"))

	_, ok = AgentType.Field("agent_code")
	assert.False(t, ok)

	assert.Equal(t,
		[]string{"id", "agent", "model", "ticket_id", "state", "spawned_by", "started_at", "ended_at"},
		AgentType.FieldNames())
}

func TestAgent_ValuesCoverEveryField(t *testing.T) {
	for _, typ := range Types() {
		rec, err := typ.New(map[string]any{"id": "x"})
		require.NoError(t, err)
		values := rec.Values()
		assert.Len(t, values, len(typ.Fields), typ.Name)
		for _, name := range typ.FieldNames() {
			_, ok := values[name]
			assert.True(t, ok, "%s.%s missing from Values()", typ.Name, name)
		}
	}
}

func TestNewAgent_Defaults(t *testing.T) {
	a, err := NewAgent(map[string]any{"id": "agent-1", "agent": "mason", "model": "claude-sonnet-4-5"})
	require.NoError(t, err)
	assert.Equal(t, AgentStateSpawning, a.State)
	assert.Nil(t, a.TicketID)
	assert.Nil(t, a.StartedAt)
}

func TestNewAgent_AcceptsTextInput(t *testing.T) {
	a, err := NewAgent(map[string]any{
		"id":         "agent-123",
		"agent":      "mason",
		"state":      "running",
		"ticket_id":  "DBC-100",
		"started_at": "2026-02-16T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, AgentStateRunning, a.State)
	require.NotNil(t, a.TicketID)
	assert.Equal(t, "DBC-100", *a.TicketID)
	require.NotNil(t, a.StartedAt)
	assert.True(t, a.StartedAt.Equal(time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)))
}

func TestNewAgent_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{"unknown field", map[string]any{"agent_code": "mason"}, "unknown field"},
		{"bad state", map[string]any{"state": "sleeping"}, "invalid agent state"},
		{"state type", map[string]any{"state": 3}, "expected agent state"},
		{"bad time", map[string]any{"started_at": "yesterday"}, "unrecognised timestamp"},
		{"string type", map[string]any{"model": 4}, "expected string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAgent(tt.values)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestType_NewRejectsUnknownField(t *testing.T) {
	tests := []struct {
		typ       *Type
		values    map[string]any
		wantField string
	}{
		{AgentType, map[string]any{"id": "a", "agent": "m", "model": "x", "bogus": 1}, "bogus"},
		{AgentType, map[string]any{"agent": "m", "zeta": 1, "alpha": 2}, "alpha"},
		{DecisionType, map[string]any{"title": "t", "decided_by": "steve"}, "decided_by"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.Name+"/"+tt.wantField, func(t *testing.T) {
			_, err := tt.typ.New(tt.values)
			var ue *UnknownFieldError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.typ.Name, ue.Type)
			assert.Equal(t, tt.wantField, ue.Field)
		})
	}
}

func TestAgent_ZeroStateReadsAsSpawning(t *testing.T) {
	a := Agent{ID: "a", Agent: "mason"}
	assert.Equal(t, AgentStateSpawning, a.Values()["state"])
}

func TestAgentState_Terminal(t *testing.T) {
	assert.False(t, AgentStateRunning.Terminal())
	assert.True(t, AgentStateCompleted.Terminal())
	assert.True(t, AgentStateStopped.Terminal())
}

func TestNewDecision(t *testing.T) {
	d, err := NewDecision(map[string]any{
		"id":             "hdr-042",
		"title":          "Use Protocol-Based Adapters",
		"decision_maker": "faust",
		"scope":          "architecture",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultDecisionStatus, d.Status)
	require.NotNil(t, d.Scope)
	assert.Equal(t, "architecture", *d.Scope)
	assert.Nil(t, d.Principle)

	values := Decision{ID: "hdr-1"}.Values()
	assert.Equal(t, DefaultDecisionStatus, values["status"])
	assert.Nil(t, values["scope"])
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-02-16T10:00:00Z", time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)},
		{"2026-02-16 10:00:00", time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)},
		{"2026-02-16T12:00:00+02:00", time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)},
		{"2026-02-16", time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}
}
