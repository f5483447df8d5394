// Package dbtest starts a throwaway Postgres for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/dynoinc/skyload/internal/database"
)

// Pool starts Postgres 16 in a container, applies all migrations and
// returns a pool that is closed when the test ends.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := t.Context()

	// https://github.com/testcontainers/testcontainers-go/issues/2264
	t.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	postgresContainer, err := postgres.Run(ctx, "postgres:16", postgres.BasicWaitStrategies())
	require.NoError(t, err)
	t.Cleanup(func() { _ = postgresContainer.Terminate(context.Background()) })

	pgURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.Pool(ctx, database.Config{URL: pgURL})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}
