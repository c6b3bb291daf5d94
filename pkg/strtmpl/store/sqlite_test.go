package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/strtmpl/pkg/strtmpl/store"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "vars.db")

	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Set(ctx, "prod", "host", "persistent"))
	first, err := store1.List(ctx, "prod")
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	v, err := store2.Get(ctx, "prod", "host")
	require.NoError(t, err)
	assert.Equal(t, "persistent", v)

	second, err := store2.List(ctx, "prod")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/vars.db")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	const numGoroutines = 20
	const numOps = 10

	var wg sync.WaitGroup
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			scope := fmt.Sprintf("scope-%d", g)
			for i := 0; i < numOps; i++ {
				name := fmt.Sprintf("var-%02d", i)
				assert.NoError(t, s.Set(ctx, scope, name, name))
				v, err := s.Get(ctx, scope, name)
				assert.NoError(t, err)
				assert.Equal(t, name, v)
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < numGoroutines; g++ {
		vars, err := s.List(ctx, fmt.Sprintf("scope-%d", g))
		require.NoError(t, err)
		assert.Len(t, vars, numOps)
	}
}

func TestSQLiteStore_Options(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSQLiteStore(":memory:", store.WithRetry(store.NoRetry), store.WithLogger(nil))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "prod", "host", "db"))
	v, err := s.Get(ctx, "prod", "host")
	require.NoError(t, err)
	assert.Equal(t, "db", v)
}

func TestSQLiteStore_RetriesWhileLocked(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "vars.db")

	owner, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer owner.Close()

	attempts := 0
	contender, err := store.NewSQLiteStore(dbPath, store.WithRetry(store.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		BackoffFactor:  2,
		RetryableFunc: func(err error) bool {
			attempts++
			return store.IsBusy(err)
		},
	}))
	require.NoError(t, err)
	defer contender.Close()

	// Hold the write lock from a separate connection.
	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer raw.Close()
	tx, err := raw.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO variables (id, scope, name, value, updated_at)
		VALUES ('lock', 'prod', 'lock', 'held', '2024-01-01T00:00:00Z')
	`)
	require.NoError(t, err)

	err = contender.Set(ctx, "prod", "host", "db")
	require.Error(t, err)
	assert.True(t, store.IsBusy(err), "expected SQLITE_BUSY, got %v", err)
	assert.Equal(t, 3, attempts)

	require.NoError(t, tx.Rollback())

	require.NoError(t, contender.Set(ctx, "prod", "host", "db"))
	v, err := owner.Get(ctx, "prod", "host")
	require.NoError(t, err)
	assert.Equal(t, "db", v)
}

func TestSQLiteStore_ListRejectsBadTimestamp(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "vars.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.ExecContext(ctx, `
		INSERT INTO variables (id, scope, name, value, updated_at)
		VALUES ('x', 'prod', 'host', 'db', 'yesterday')
	`)
	require.NoError(t, err)

	_, err = s.List(ctx, "prod")
	assert.ErrorContains(t, err, "parse updated_at of host")
}
