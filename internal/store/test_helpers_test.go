package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/herd-ag/herdstore/internal/record"
	"github.com/herd-ag/herdstore/internal/testutil"
)

// forEachDriver runs fn once per supported driver as a subtest.
func forEachDriver(t *testing.T, fn func(t *testing.T, d Driver)) {
	t.Helper()
	for _, d := range Drivers {
		t.Run(string(d), func(t *testing.T) {
			fn(t, d)
		})
	}
}

// createTestStore opens an in-memory store on driver d.
func createTestStore(t *testing.T, d Driver, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithDriver(d)}, opts...)
	s, err := Open(MemoryTarget, opts...)
	require.NoError(t, err, "Open(%s)", d)
	t.Cleanup(func() { s.Close() })
	return s
}

// fileTarget returns a database path inside the test's temp dir.
func fileTarget(t *testing.T, d Driver) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "herd."+string(d))
}

// saveAll saves every record and fails the test on the first error.
func saveAll[R record.Record](t *testing.T, s *Store, recs []R) {
	t.Helper()
	ctx := context.Background()
	for _, r := range recs {
		_, err := s.Save(ctx, r)
		require.NoError(t, err)
	}
}

// seed saves the agent and decision fixtures.
func seed(t *testing.T, s *Store) {
	t.Helper()
	saveAll(t, s, testutil.Agents())
	saveAll(t, s, testutil.Decisions())
}

func ids(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i], _ = r.Values()["id"].(string)
	}
	return out
}
