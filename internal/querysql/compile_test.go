package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herd-ag/herdstore/internal/queryir"
)

func TestCompile_SelectWithFilter(t *testing.T) {
	compiler := NewCompiler(DuckDB)

	sql, params, err := compiler.Compile(queryir.Select{
		From:    "agent_instances",
		Columns: []string{"id", "agent_code"},
		Filter:  queryir.Equals{Column: "agent_code", Value: "mason"},
		OrderBy: []string{"seq", "id"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "id", "agent_code" FROM "agent_instances" WHERE "agent_code" = ? ORDER BY "seq" ASC, "id" ASC`,
		sql)
	assert.NotContains(t, sql, "mason")
	assert.Equal(t, []any{"mason"}, params)
}

func TestCompile_SelectPointerAndLimit(t *testing.T) {
	compiler := NewCompiler(SQLite)

	sql, params, err := compiler.Compile(&queryir.Select{
		From:    "decision_records",
		Columns: []string{"id"},
		Filter: &queryir.And{Predicates: []queryir.Predicate{
			&queryir.Equals{Column: "id", Value: "d-1"},
			&queryir.IsNull{Column: "principle"},
		}},
		OrderBy: []string{"id"},
		Limit:   2,
	})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "id" FROM "decision_records" WHERE "id" = ? AND "principle" IS NULL ORDER BY "id" ASC LIMIT 2`,
		sql)
	assert.Equal(t, []any{"d-1"}, params)
}

func TestCompile_SelectWithoutFilter(t *testing.T) {
	sql, params, err := NewCompiler(DuckDB).Compile(queryir.Select{
		From:    "t",
		Columns: []string{"a"},
		OrderBy: []string{"seq"},
	})
	require.NoError(t, err)

	assert.Equal(t, `SELECT "a" FROM "t" ORDER BY "seq" ASC`, sql)
	assert.Empty(t, params)
}

func TestCompile_ParamsFollowPredicateOrder(t *testing.T) {
	sql, params, err := NewCompiler(DuckDB).Compile(queryir.Select{
		From:    "t",
		Columns: []string{"a"},
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Column: "a", Value: "1"},
			queryir.And{Predicates: []queryir.Predicate{
				queryir.IsNull{Column: "b"},
				queryir.Equals{Column: "c", Value: "3"},
			}},
			queryir.And{},
		}},
		OrderBy: []string{"a"},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, `WHERE "a" = ? AND "b" IS NULL AND "c" = ? AND 1 = 1`)
	assert.Equal(t, []any{"1", "3"}, params)
}

func TestCompile_Insert(t *testing.T) {
	base := queryir.Insert{
		Into:        "agent_instances",
		Columns:     []string{"id", "agent_code", "seq"},
		Values:      []any{"a-1", "mason", int64(7)},
		ConflictKey: "id",
	}

	tests := []struct {
		name   string
		action queryir.ConflictAction
		update []string
		want   string
	}{
		{
			name:   "fail",
			action: queryir.ConflictFail,
			want:   `INSERT INTO "agent_instances" ("id", "agent_code", "seq") VALUES (?, ?, ?)`,
		},
		{
			name:   "ignore",
			action: queryir.ConflictIgnore,
			want:   `INSERT INTO "agent_instances" ("id", "agent_code", "seq") VALUES (?, ?, ?) ON CONFLICT ("id") DO NOTHING`,
		},
		{
			name:   "update",
			action: queryir.ConflictUpdate,
			update: []string{"agent_code"},
			want: `INSERT INTO "agent_instances" ("id", "agent_code", "seq") VALUES (?, ?, ?)` +
				` ON CONFLICT ("id") DO UPDATE SET "agent_code" = excluded."agent_code"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := base
			ins.OnConflict = tt.action
			ins.UpdateColumns = tt.update

			sql, params, err := NewCompiler(DuckDB).Compile(ins)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Equal(t, []any{"a-1", "mason", int64(7)}, params)
		})
	}
}

func TestCompile_CountAndMax(t *testing.T) {
	compiler := NewCompiler(SQLite)

	sql, params, err := compiler.Compile(queryir.Count{
		From:   "decision_records",
		Filter: queryir.Equals{Column: "decision_type", Value: "process"},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "decision_records" WHERE "decision_type" = ?`, sql)
	assert.Equal(t, []any{"process"}, params)

	sql, params, err = compiler.Compile(&queryir.Max{From: "decision_records", Column: "seq"})
	require.NoError(t, err)
	assert.Equal(t, `SELECT COALESCE(MAX("seq"), 0) FROM "decision_records"`, sql)
	assert.Empty(t, params)
}

func TestCompile_RejectsInvalidStatements(t *testing.T) {
	compiler := NewCompiler(DuckDB)

	_, _, err := compiler.Compile(nil)
	require.Error(t, err)

	_, _, err = compiler.Compile(queryir.Select{From: "t", Columns: []string{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDER BY required")
}

func TestCompile_QuotesIdentifiers(t *testing.T) {
	assert.Equal(t, `"plain"`, QuoteIdent("plain"))
	assert.Equal(t, `"odd""name"`, QuoteIdent(`odd"name`))
}

func TestDialect(t *testing.T) {
	d, err := DialectNamed("duckdb")
	require.NoError(t, err)
	assert.Equal(t, DuckDB.Name, d.Name)

	name, err := d.TypeName(queryir.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, "BIGINT", name)

	name, err = SQLite.TypeName(queryir.TypeText)
	require.NoError(t, err)
	assert.Equal(t, "TEXT", name)

	_, err = DuckDB.TypeName("blob")
	require.Error(t, err)

	_, err = DialectNamed("postgres")
	require.Error(t, err)
}
