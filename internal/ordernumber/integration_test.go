//go:build integration

package ordernumber

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"caixa-be/internal/db"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("caixa"),
		postgres.WithUsername("caixa"),
		postgres.WithPassword("caixa"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn, db.MigrateUp, filepath.Join("..", "..", "migrations")))
	return conn
}

func TestNextConcurrent(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	const callers = 50

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.Next(ctx, 7)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, n)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, numbers, callers)

	sort.Strings(numbers)
	for i, n := range numbers {
		assert.Equal(t, Format(int64(i+1)), n)
	}

	// Other users keep their own sequence.
	other, err := svc.Next(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "00000001", other)
}

func TestNextTxRollbackKeepsCounter(t *testing.T) {
	conn := setupTestDB(t)
	svc := NewService(NewRepository(conn))
	ctx := context.Background()

	_, err := svc.Next(ctx, 7)
	require.NoError(t, err)

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	n, err := svc.NextTx(ctx, tx, 7)
	require.NoError(t, err)
	assert.Equal(t, "00000002", n)
	require.NoError(t, tx.Rollback())

	current, err := svc.Current(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "00000001", current)
}
