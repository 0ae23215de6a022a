package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"agent", "decision"}, cat.Names())

	agent, ok := cat.Entry("agent")
	require.True(t, ok)
	assert.Equal(t, "agent_instances", agent.Table)
	assert.Equal(t, map[string]string{"agent": "agent_code", "model": "model_code"}, agent.Columns)

	decision, ok := cat.Entry("decision")
	require.True(t, ok)
	assert.Equal(t, "decision_records", decision.Table)
	assert.Equal(t, "decided_by", decision.Columns["decision_maker"])
	assert.Equal(t, "decision_type", decision.Columns["scope"])

	_, ok = cat.Entry("ticket")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "custom.cue"))
	require.NoError(t, err)

	agent, ok := cat.Entry("agent")
	require.True(t, ok)
	assert.Equal(t, "herd_agents", agent.Table)
	assert.Equal(t, "agent_state", agent.Columns["state"])

	decision, ok := cat.Entry("decision")
	require.True(t, ok)
	assert.Equal(t, "herd_decisions", decision.Table)
	assert.Empty(t, decision.Columns)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax error",
			src:  `record: agent: {`,
			want: "cue",
		},
		{
			name: "invalid table identifier",
			src:  `record: agent: table: "Agent Instances"`,
			want: "cue",
		},
		{
			name: "invalid column identifier",
			src: `record: agent: {
				table: "agents"
				columns: agent: "agent-code"
			}`,
			want: "cue",
		},
		{
			name: "missing table",
			src:  `record: agent: columns: agent: "agent_code"`,
			want: "cue",
		},
		{
			name: "no records",
			src:  `other: 1`,
			want: "catalog declares no records",
		},
		{
			name: "shared table",
			src: `record: agent: table: "rows"
record: decision: table: "rows"`,
			want: "already used by record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.cue", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_ErrorCarriesPosition(t *testing.T) {
	_, err := Parse("layout.cue", []byte(`record: agent: table: "Bad Name"`))
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.True(t, compileErr.Pos.IsValid())
	assert.Contains(t, err.Error(), "Bad Name")
}

func TestCompileError_WithoutPosition(t *testing.T) {
	err := &CompileError{Field: "record", Message: "catalog declares no records"}
	assert.Equal(t, "record: catalog declares no records", err.Error())
}
