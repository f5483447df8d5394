package database_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/database/dbtest"
)

func TestTables(t *testing.T) {
	ctx := t.Context()
	q := database.New(dbtest.Pool(t))

	_, err := q.GetTable(ctx, "1")
	require.True(t, errors.Is(err, pgx.ErrNoRows))

	require.NoError(t, q.CreateTable(ctx, database.CreateTableParams{TableID: "1", Name: "events", State: "ONLINE"}))

	table, err := q.GetTable(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "events", table.Name)
	assert.Equal(t, "ONLINE", table.State)

	n, err := q.UpdateTableState(ctx, database.UpdateTableStateParams{TableID: "1", State: "OFFLINE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The state check constraint rejects unknown states.
	_, err = q.UpdateTableState(ctx, database.UpdateTableStateParams{TableID: "1", State: "BOGUS"})
	require.Error(t, err)
}

func TestReserveDir(t *testing.T) {
	ctx := t.Context()
	q := database.New(dbtest.Pool(t))

	owner, err := q.ReserveDir(ctx, database.ReserveDirParams{Path: "vol/src", TxID: "tx1"})
	require.NoError(t, err)
	assert.Equal(t, "tx1", owner)

	// Re-reserving by the owner is idempotent.
	owner, err = q.ReserveDir(ctx, database.ReserveDirParams{Path: "vol/src", TxID: "tx1"})
	require.NoError(t, err)
	assert.Equal(t, "tx1", owner)

	owner, err = q.ReserveDir(ctx, database.ReserveDirParams{Path: "vol/src", TxID: "tx2"})
	require.NoError(t, err)
	assert.Equal(t, "tx1", owner)

	// Only the owner can release it.
	n, err := q.DeleteDirReservation(ctx, database.DeleteDirReservationParams{Path: "vol/src", TxID: "tx2"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = q.DeleteDirReservation(ctx, database.DeleteDirReservationParams{Path: "vol/src", TxID: "tx1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNextNameBlock(t *testing.T) {
	ctx := t.Context()
	q := database.New(dbtest.Pool(t))

	first, err := q.NextNameBlock(ctx)
	require.NoError(t, err)
	second, err := q.NextNameBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), second-first)
}
