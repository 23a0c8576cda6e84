package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oke1234/goalmatch/pkg/match"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	database, err := New(Config{DSN: "file:" + tmpFile.Name() + "?mode=rwc"})
	require.NoError(t, err)

	t.Cleanup(func() {
		database.Close()
		os.Remove(tmpFile.Name())
	})
	return database
}

func TestDB_InitSchema(t *testing.T) {
	database := setupTestDB(t)

	// schema should already be initialized by New()
	var count int
	err := database.conn.Get(&count, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name = 'expected_time_history'
	`)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHistoryStore_LoadEmpty(t *testing.T) {
	store := setupTestDB(t).History()

	times, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, times, "missing history is an empty map, not an error")
}

func TestHistoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t).History()

	saved := map[match.TimeKey]float64{
		{Category: "fitness", Difficulty: 1}: 12.5,
		{Category: "fitness", Difficulty: 3}: 45,
		{Category: "study", Difficulty: 5}:   120,
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestHistoryStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t).History()

	require.NoError(t, store.Save(ctx, map[match.TimeKey]float64{
		{Category: "fitness", Difficulty: 1}: 10,
		{Category: "fitness", Difficulty: 2}: 20,
	}))

	// second save wins completely, stale rows are gone
	replacement := map[match.TimeKey]float64{
		{Category: "fitness", Difficulty: 1}: 35,
	}
	require.NoError(t, store.Save(ctx, replacement))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)
}

func TestHistoryStore_SaveEmpty(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t).History()

	require.NoError(t, store.Save(ctx, map[match.TimeKey]float64{
		{Category: "fitness", Difficulty: 1}: 10,
	}))
	require.NoError(t, store.Save(ctx, map[match.TimeKey]float64{}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
