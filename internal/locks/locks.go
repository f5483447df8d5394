// Package locks implements the persistent reservations bulk operations
// take on tables and directories. They are stored in Postgres so they
// survive a restart of the process that took them and are released only by
// the transaction that owns them.
package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgx/v5"

	"github.com/dynoinc/skyload/internal/database"
)

const (
	modeRead  = "READ"
	modeWrite = "WRITE"
)

// ReserveRetry is how long a caller should wait before trying to reserve a
// directory that another transaction holds.
const ReserveRetry = 50 * time.Millisecond

// TableLocks is a table-scoped reader/writer lock. Any number of
// transactions can hold the read lock as long as nobody holds the write lock.
type TableLocks struct {
	db database.DB
	q  *database.Queries
}

func NewTableLocks(db database.DB) *TableLocks {
	return &TableLocks{db: db, q: database.New(db)}
}

// TryReadLock takes the read lock for txID without waiting. Taking a lock
// the transaction already holds succeeds.
func (l *TableLocks) TryReadLock(ctx context.Context, tableID, txID string) (bool, error) {
	return l.tryLock(ctx, tableID, txID, modeRead)
}

// TryWriteLock takes the exclusive lock for txID without waiting.
func (l *TableLocks) TryWriteLock(ctx context.Context, tableID, txID string) (bool, error) {
	return l.tryLock(ctx, tableID, txID, modeWrite)
}

// Unlock releases whatever lock txID holds on tableID. Releasing a lock that
// is not held is a no-op.
func (l *TableLocks) Unlock(ctx context.Context, tableID, txID string) error {
	if _, err := l.q.DeleteTableLock(ctx, database.DeleteTableLockParams{
		TableID: tableID,
		TxID:    txID,
	}); err != nil {
		return fmt.Errorf("releasing lock on table %s: %w", tableID, err)
	}
	return nil
}

func (l *TableLocks) tryLock(ctx context.Context, tableID, txID, mode string) (bool, error) {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := l.q.WithTx(tx)

	// Serialize lock decisions per table. The advisory lock is released
	// when the transaction ends; losing it counts as a failed attempt.
	acquired, err := qtx.TryAdvisoryXactLock(ctx, lockKey(tableID))
	if err != nil {
		return false, fmt.Errorf("serializing lock on table %s: %w", tableID, err)
	}
	if !acquired {
		return false, nil
	}

	held, err := qtx.GetTableLocks(ctx, tableID)
	if err != nil {
		return false, fmt.Errorf("reading locks on table %s: %w", tableID, err)
	}

	if !compatible(held, txID, mode) {
		return false, nil
	}

	if err := qtx.InsertTableLock(ctx, database.InsertTableLockParams{
		TableID: tableID,
		TxID:    txID,
		Mode:    mode,
	}); err != nil {
		return false, fmt.Errorf("recording lock on table %s: %w", tableID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing lock on table %s: %w", tableID, err)
	}

	return true, nil
}

// compatible decides whether txID may take mode given the locks already held.
func compatible(held []database.TableLock, txID, mode string) bool {
	for _, h := range held {
		if h.TxID == txID {
			// Reentrant, but a reader cannot upgrade itself.
			return h.Mode == mode || h.Mode == modeWrite
		}
	}

	for _, h := range held {
		if mode == modeWrite || h.Mode == modeWrite {
			return false
		}
	}
	return true
}

func lockKey(tableID string) int64 {
	return int64(xxhash.Sum64String("table-lock/" + tableID))
}

// Reservations gives a single transaction exclusive use of a directory.
type Reservations struct {
	q database.Querier
}

func NewReservations(q database.Querier) *Reservations {
	return &Reservations{q: q}
}

// Reserve returns 0 once txID owns dir, or how long to wait before asking
// again when another transaction owns it.
func (r *Reservations) Reserve(ctx context.Context, dir, txID string) (time.Duration, error) {
	owner, err := r.q.ReserveDir(ctx, database.ReserveDirParams{Path: dir, TxID: txID})
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race with a concurrent reservation.
		return ReserveRetry, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reserving %s: %w", dir, err)
	}

	if owner != txID {
		return ReserveRetry, nil
	}
	return 0, nil
}

// Unreserve releases dir if txID owns it.
func (r *Reservations) Unreserve(ctx context.Context, dir, txID string) error {
	if _, err := r.q.DeleteDirReservation(ctx, database.DeleteDirReservationParams{Path: dir, TxID: txID}); err != nil {
		return fmt.Errorf("unreserving %s: %w", dir, err)
	}
	return nil
}
