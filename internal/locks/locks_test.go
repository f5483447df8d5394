package locks

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/database/dbtest"
)

func TestCompatible(t *testing.T) {
	read := func(tx string) database.TableLock { return database.TableLock{TxID: tx, Mode: modeRead} }
	write := func(tx string) database.TableLock { return database.TableLock{TxID: tx, Mode: modeWrite} }

	tests := []struct {
		name string
		held []database.TableLock
		tx   string
		mode string
		want bool
	}{
		{"read on free table", nil, "a", modeRead, true},
		{"write on free table", nil, "a", modeWrite, true},
		{"shared readers", []database.TableLock{read("b"), read("c")}, "a", modeRead, true},
		{"read blocked by writer", []database.TableLock{write("b")}, "a", modeRead, false},
		{"write blocked by reader", []database.TableLock{read("b")}, "a", modeWrite, false},
		{"reentrant read", []database.TableLock{read("a")}, "a", modeRead, true},
		{"writer may read", []database.TableLock{write("a")}, "a", modeRead, true},
		{"no upgrade", []database.TableLock{read("a")}, "a", modeWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compatible(tt.held, tt.tx, tt.mode))
		})
	}
}

func TestTableLocksDoNotWait(t *testing.T) {
	ctx := t.Context()
	pool := dbtest.Pool(t)
	l := NewTableLocks(pool)

	// Another transaction is deciding a lock on the same table.
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)
	acquired, err := database.New(tx).TryAdvisoryXactLock(ctx, lockKey("1"))
	require.NoError(t, err)
	require.True(t, acquired)

	ok, err := l.TryReadLock(ctx, "1", "tx1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tx.Rollback(ctx))

	ok, err = l.TryReadLock(ctx, "1", "tx1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTableLocks(t *testing.T) {
	ctx := t.Context()
	l := NewTableLocks(dbtest.Pool(t))

	ok, err := l.TryReadLock(ctx, "1", "tx1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.TryReadLock(ctx, "1", "tx2")
	require.NoError(t, err)
	assert.True(t, ok, "read locks are shared")

	ok, err = l.TryWriteLock(ctx, "1", "tx3")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, "1", "tx1"))
	require.NoError(t, l.Unlock(ctx, "1", "tx2"))
	require.NoError(t, l.Unlock(ctx, "1", "tx2"), "unlocking twice is a no-op")

	ok, err = l.TryWriteLock(ctx, "1", "tx3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.TryReadLock(ctx, "1", "tx4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReservations_MutualExclusion(t *testing.T) {
	ctx := t.Context()
	r := NewReservations(database.New(dbtest.Pool(t)))

	const attempts = 10
	delays := make([]int64, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := r.Reserve(context.Background(), "vol/src", string(rune('a'+i)))
			assert.NoError(t, err)
			delays[i] = int64(d)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, d := range delays {
		if d == 0 {
			winners++
		} else {
			assert.Equal(t, int64(ReserveRetry), d)
		}
	}
	assert.Equal(t, 1, winners)

	// Once released, a waiting transaction can take it.
	for i := range attempts {
		require.NoError(t, r.Unreserve(ctx, "vol/src", string(rune('a'+i))))
	}
	d, err := r.Reserve(ctx, "vol/src", "z")
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestArbitrator(t *testing.T) {
	ctx := t.Context()
	pool := dbtest.Pool(t)
	a := NewArbitrator(database.New(pool))

	count := func() int {
		var n int
		require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM arbitrations WHERE tx_id = 'tx1'").Scan(&n))
		return n
	}

	require.NoError(t, a.Start(ctx, BulkTx, "tx1"))
	require.NoError(t, a.Start(ctx, BulkTx, "tx1"))
	assert.Equal(t, 1, count())

	require.NoError(t, a.Cleanup(ctx, BulkTx, "tx1"))
	assert.Equal(t, 0, count())
	require.NoError(t, a.Cleanup(ctx, BulkTx, "never-started"))
}
