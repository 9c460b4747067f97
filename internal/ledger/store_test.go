package ledger

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndList(t *testing.T) {
	s := openTestStore(t, ":memory:")
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Record(ctx, Record{
		Run: 1, Method: "llm_ic_pddl", Domain: "blocksworld", Task: "blocksworld/p01.pddl",
		TaskHash: "abc", Outcome: "solved", Plan: "(pick a)", Cost: 4, HasCost: true,
		Duration: 1500 * time.Millisecond,
	}))
	require.NoError(t, s.Record(ctx, Record{
		Run: 1, Method: "llm", Domain: "blocksworld", Task: "blocksworld/p02.pddl", Outcome: "answered",
	}))
	require.NoError(t, s.Record(ctx, Record{Run: 2, Method: "llm", Domain: "barman", Task: "barman/p01.pddl", Outcome: "answered"}))

	got, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "blocksworld/p01.pddl", first.Task)
	assert.Equal(t, "abc", first.TaskHash)
	assert.True(t, first.HasCost)
	assert.Equal(t, 4.0, first.Cost)
	assert.Equal(t, 1500*time.Millisecond, first.Duration)
	assert.True(t, fixed.Equal(first.CreatedAt))

	assert.False(t, got[1].HasCost)
	assert.NotEqual(t, first.ID, got[1].ID)

	none, err := s.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	s := openTestStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, Record{ID: "same", Run: 0, Method: "m", Domain: "d", Task: "t", Outcome: "o"}))
	assert.Error(t, s.Record(ctx, Record{ID: "same", Run: 0, Method: "m", Domain: "d", Task: "t", Outcome: "o"}))
}

func TestStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, Record{Run: 3, Method: "m", Domain: "d", Task: "t", Outcome: "o"}))
	require.NoError(t, s.Close())

	reopened := openTestStore(t, path)
	got, err := reopened.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore_ConcurrentRecord(t *testing.T) {
	s := openTestStore(t, ":memory:")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Record(ctx, Record{Run: 0, Method: "m", Domain: "d", Task: "t", Outcome: "o"}))
		}()
	}
	wg.Wait()

	got, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
