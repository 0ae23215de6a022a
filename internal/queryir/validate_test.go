package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	stmts := []Statement{
		CreateTable{
			Name: "agent_instances",
			Columns: []ColumnDef{
				{Name: "id", Type: TypeText, NotNull: true},
				{Name: "started_at", Type: TypeTimestamp},
				{Name: "seq", Type: TypeInteger, NotNull: true},
			},
			PrimaryKey: "id",
		},
		Insert{
			Into:          "agent_instances",
			Columns:       []string{"id", "agent_code", "seq"},
			Values:        []any{"a-1", "mason", int64(1)},
			ConflictKey:   "id",
			OnConflict:    ConflictUpdate,
			UpdateColumns: []string{"agent_code"},
		},
		&Insert{
			Into:        "agent_instances",
			Columns:     []string{"id"},
			Values:      []any{"a-1"},
			ConflictKey: "id",
			OnConflict:  ConflictIgnore,
		},
		Select{
			From:    "agent_instances",
			Columns: []string{"id", "agent_code"},
			Filter: And{Predicates: []Predicate{
				Equals{Column: "agent_code", Value: "mason"},
				IsNull{Column: "ended_at"},
			}},
			OrderBy: []string{"seq", "id"},
		},
		Count{From: "agent_instances"},
		&Max{From: "agent_instances", Column: "seq"},
	}

	for _, stmt := range stmts {
		assert.NoError(t, Validate(stmt), "%#v", stmt)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		stmt Statement
		want []string
	}{
		{
			name: "nil statement",
			stmt: nil,
			want: []string{"nil statement"},
		},
		{
			name: "table without primary key column",
			stmt: CreateTable{
				Name:       "t",
				Columns:    []ColumnDef{{Name: "a", Type: TypeText}, {Name: "a", Type: "blob"}},
				PrimaryKey: "id",
			},
			want: []string{"declared twice", `unknown type "blob"`, `primary key "id"`},
		},
		{
			name: "insert arity",
			stmt: Insert{Into: "t", Columns: []string{"id", "a"}, Values: []any{"x"}},
			want: []string{"2 columns but 1 values"},
		},
		{
			name: "update touches conflict key",
			stmt: Insert{
				Into:          "t",
				Columns:       []string{"id", "a"},
				Values:        []any{"x", "y"},
				ConflictKey:   "id",
				OnConflict:    ConflictUpdate,
				UpdateColumns: []string{"id", "b"},
			},
			want: []string{"cannot be updated", `update column "b" is not inserted`},
		},
		{
			name: "conflict key not inserted",
			stmt: Insert{Into: "t", Columns: []string{"a"}, Values: []any{"y"}, ConflictKey: "id", OnConflict: ConflictIgnore},
			want: []string{`conflict key "id" is not inserted`},
		},
		{
			name: "select without columns or order",
			stmt: Select{From: "t"},
			want: []string{"explicit columns required", "ORDER BY required"},
		},
		{
			name: "equals nil",
			stmt: Select{
				From:    "t",
				Columns: []string{"id"},
				Filter:  &And{Predicates: []Predicate{&Equals{Column: "a"}}},
				OrderBy: []string{"id"},
			},
			want: []string{"use IsNull"},
		},
		{
			name: "empty identifiers",
			stmt: Max{},
			want: []string{"empty max table", "empty max column"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.stmt)
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestConjunction(t *testing.T) {
	assert.Nil(t, Conjunction(nil, nil))

	assert.Equal(t, Equals{Column: "a", Value: "x"}, Conjunction([]string{"a"}, []any{"x"}))

	assert.Equal(t, And{Predicates: []Predicate{
		IsNull{Column: "a"},
		Equals{Column: "b", Value: "y"},
	}}, Conjunction([]string{"a", "b"}, []any{nil, "y"}))
}

func TestConflictAction_String(t *testing.T) {
	assert.Equal(t, "fail", ConflictFail.String())
	assert.Equal(t, "ignore", ConflictIgnore.String())
	assert.Equal(t, "update", ConflictUpdate.String())
	assert.Equal(t, "unknown", ConflictAction(9).String())
}
