package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const createTable = `
INSERT INTO tables (table_id, name, state) VALUES ($1, $2, $3)
`

type CreateTableParams struct {
	TableID string
	Name    string
	State   string
}

func (q *Queries) CreateTable(ctx context.Context, arg CreateTableParams) error {
	_, err := q.db.Exec(ctx, createTable, arg.TableID, arg.Name, arg.State)
	return err
}

const getTable = `
SELECT table_id, name, state, created_at FROM tables WHERE table_id = $1
`

func (q *Queries) GetTable(ctx context.Context, tableID string) (Table, error) {
	row := q.db.QueryRow(ctx, getTable, tableID)
	var i Table
	err := row.Scan(&i.TableID, &i.Name, &i.State, &i.CreatedAt)
	return i, err
}

const updateTableState = `
UPDATE tables SET state = $2 WHERE table_id = $1
`

type UpdateTableStateParams struct {
	TableID string
	State   string
}

func (q *Queries) UpdateTableState(ctx context.Context, arg UpdateTableStateParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateTableState, arg.TableID, arg.State)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const insertTablet = `
INSERT INTO tablets (table_id, prev_end_row, end_row) VALUES ($1, $2, $3)
`

type InsertTabletParams struct {
	TableID    string
	PrevEndRow []byte
	EndRow     []byte
}

func (q *Queries) InsertTablet(ctx context.Context, arg InsertTabletParams) error {
	_, err := q.db.Exec(ctx, insertTablet, arg.TableID, arg.PrevEndRow, arg.EndRow)
	return err
}

const getTabletContaining = `
SELECT id, table_id, prev_end_row, end_row FROM tablets
WHERE table_id = $1
  AND (prev_end_row IS NULL OR prev_end_row < $2::bytea)
  AND (end_row IS NULL OR end_row >= $2::bytea)
`

type GetTabletContainingParams struct {
	TableID string
	Row     []byte
}

func (q *Queries) GetTabletContaining(ctx context.Context, arg GetTabletContainingParams) (Tablet, error) {
	row := q.db.QueryRow(ctx, getTabletContaining, arg.TableID, arg.Row)
	var i Tablet
	err := row.Scan(&i.ID, &i.TableID, &i.PrevEndRow, &i.EndRow)
	return i, err
}

const updateTabletEndRow = `
UPDATE tablets SET end_row = $2 WHERE id = $1
`

type UpdateTabletEndRowParams struct {
	ID     int64
	EndRow []byte
}

func (q *Queries) UpdateTabletEndRow(ctx context.Context, arg UpdateTabletEndRowParams) error {
	_, err := q.db.Exec(ctx, updateTabletEndRow, arg.ID, arg.EndRow)
	return err
}

const deleteTablet = `
DELETE FROM tablets WHERE id = $1
`

func (q *Queries) DeleteTablet(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteTablet, id)
	return err
}

// Rows are ordered by end row with the unbounded tablet last, starting at
// the first tablet whose end row is at or after StartRow.
const scanTablets = `
SELECT id, table_id, prev_end_row, end_row FROM tablets
WHERE table_id = $1
  AND ($2::bytea IS NULL OR end_row IS NULL OR end_row >= $2::bytea)
ORDER BY end_row ASC NULLS LAST
`

type ScanTabletsParams struct {
	TableID  string
	StartRow []byte
}

// ScanTablets returns the open result set; rows are read lazily.
func (q *Queries) ScanTablets(ctx context.Context, arg ScanTabletsParams) (pgx.Rows, error) {
	return q.db.Query(ctx, scanTablets, arg.TableID, arg.StartRow)
}

const tryAdvisoryXactLock = `
SELECT pg_try_advisory_xact_lock($1)
`

func (q *Queries) TryAdvisoryXactLock(ctx context.Context, key int64) (bool, error) {
	row := q.db.QueryRow(ctx, tryAdvisoryXactLock, key)
	var acquired bool
	err := row.Scan(&acquired)
	return acquired, err
}

const getTableLocks = `
SELECT table_id, tx_id, mode, acquired_at FROM table_locks WHERE table_id = $1
`

func (q *Queries) GetTableLocks(ctx context.Context, tableID string) ([]TableLock, error) {
	rows, err := q.db.Query(ctx, getTableLocks, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TableLock
	for rows.Next() {
		var i TableLock
		if err := rows.Scan(&i.TableID, &i.TxID, &i.Mode, &i.AcquiredAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertTableLock = `
INSERT INTO table_locks (table_id, tx_id, mode) VALUES ($1, $2, $3)
ON CONFLICT (table_id, tx_id) DO NOTHING
`

type InsertTableLockParams struct {
	TableID string
	TxID    string
	Mode    string
}

func (q *Queries) InsertTableLock(ctx context.Context, arg InsertTableLockParams) error {
	_, err := q.db.Exec(ctx, insertTableLock, arg.TableID, arg.TxID, arg.Mode)
	return err
}

const deleteTableLock = `
DELETE FROM table_locks WHERE table_id = $1 AND tx_id = $2
`

type DeleteTableLockParams struct {
	TableID string
	TxID    string
}

func (q *Queries) DeleteTableLock(ctx context.Context, arg DeleteTableLockParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTableLock, arg.TableID, arg.TxID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// Returns the owning tx id. When a concurrent transaction wins the insert
// its row may not be visible to this statement, in which case no row is
// returned.
const reserveDir = `
WITH ins AS (
    INSERT INTO dir_reservations (path, tx_id) VALUES ($1, $2)
    ON CONFLICT (path) DO NOTHING
    RETURNING tx_id
)
SELECT tx_id FROM ins
UNION ALL
SELECT tx_id FROM dir_reservations WHERE path = $1
LIMIT 1
`

type ReserveDirParams struct {
	Path string
	TxID string
}

func (q *Queries) ReserveDir(ctx context.Context, arg ReserveDirParams) (string, error) {
	row := q.db.QueryRow(ctx, reserveDir, arg.Path, arg.TxID)
	var txID string
	err := row.Scan(&txID)
	return txID, err
}

const deleteDirReservation = `
DELETE FROM dir_reservations WHERE path = $1 AND tx_id = $2
`

type DeleteDirReservationParams struct {
	Path string
	TxID string
}

func (q *Queries) DeleteDirReservation(ctx context.Context, arg DeleteDirReservationParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteDirReservation, arg.Path, arg.TxID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const upsertArbitration = `
INSERT INTO arbitrations (kind, tx_id, state) VALUES ($1, $2, $3)
ON CONFLICT (kind, tx_id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()
`

type UpsertArbitrationParams struct {
	Kind  string
	TxID  string
	State string
}

func (q *Queries) UpsertArbitration(ctx context.Context, arg UpsertArbitrationParams) error {
	_, err := q.db.Exec(ctx, upsertArbitration, arg.Kind, arg.TxID, arg.State)
	return err
}

const deleteArbitrations = `
DELETE FROM arbitrations WHERE kind = $1 AND tx_id = $2
`

type DeleteArbitrationsParams struct {
	Kind string
	TxID string
}

func (q *Queries) DeleteArbitrations(ctx context.Context, arg DeleteArbitrationsParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteArbitrations, arg.Kind, arg.TxID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const nextNameBlock = `
SELECT nextval('unique_names')
`

// NextNameBlock returns the first value of a fresh block of 100 names.
func (q *Queries) NextNameBlock(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, nextNameBlock)
	var v int64
	err := row.Scan(&v)
	return v, err
}

const listAbandonedJobs = `
SELECT j.id, j.state::text, j.args FROM river_job j
WHERE j.kind = $1
  AND j.state IN ('cancelled', 'discarded')
  AND (
    EXISTS (SELECT 1 FROM table_locks l WHERE l.tx_id = j.args->>'tx_id')
    OR EXISTS (SELECT 1 FROM dir_reservations d WHERE d.tx_id = j.args->>'tx_id')
    OR EXISTS (SELECT 1 FROM arbitrations a WHERE a.tx_id = j.args->>'tx_id')
  )
ORDER BY j.id
LIMIT $2
`

type ListAbandonedJobsParams struct {
	Kind  string
	Limit int32
}

func (q *Queries) ListAbandonedJobs(ctx context.Context, arg ListAbandonedJobsParams) ([]AbandonedJob, error) {
	rows, err := q.db.Query(ctx, listAbandonedJobs, arg.Kind, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AbandonedJob
	for rows.Next() {
		var i AbandonedJob
		if err := rows.Scan(&i.ID, &i.State, &i.Args); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
