package store

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/queryir"
	"github.com/herd-ag/herdstore/internal/record"
)

func defaultRegistry(t *testing.T) *mapping.Registry {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	reg, err := mapping.NewRegistry(cat, record.Types()...)
	require.NoError(t, err)
	return reg
}

// To regenerate: go test ./internal/store -run TestSchemaScript -update
func TestSchemaScript(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	reg := defaultRegistry(t)

	for _, d := range Drivers {
		t.Run(string(d), func(t *testing.T) {
			script, err := SchemaScript(d.Dialect(), reg)
			require.NoError(t, err)
			g.Assert(t, "schema_"+d.Dialect().Name, []byte(script))
		})
	}
}

func TestCreateTable(t *testing.T) {
	reg := defaultRegistry(t)
	m, ok := reg.ByName("decision")
	require.True(t, ok)

	ct, err := CreateTable(m)
	require.NoError(t, err)

	assert.Equal(t, "decision_records", ct.Name)
	assert.Equal(t, "id", ct.PrimaryKey)
	require.Len(t, ct.Columns, 8)
	assert.Equal(t, queryir.ColumnDef{Name: "decided_by", Type: queryir.TypeText, NotNull: true}, ct.Columns[3])
	assert.Equal(t, queryir.ColumnDef{Name: "principle", Type: queryir.TypeText}, ct.Columns[4])
	assert.Equal(t, queryir.ColumnDef{Name: "seq", Type: queryir.TypeInteger, NotNull: true}, ct.Columns[7])
}
