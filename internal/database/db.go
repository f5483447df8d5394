package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Beginner starts transactions; *pgxpool.Pool and pgx.Tx satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DB runs queries and starts transactions.
type DB interface {
	DBTX
	Beginner
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Querier is the full set of queries, mocked in tests.
type Querier interface {
	CreateTable(ctx context.Context, arg CreateTableParams) error
	GetTable(ctx context.Context, tableID string) (Table, error)
	UpdateTableState(ctx context.Context, arg UpdateTableStateParams) (int64, error)

	InsertTablet(ctx context.Context, arg InsertTabletParams) error
	GetTabletContaining(ctx context.Context, arg GetTabletContainingParams) (Tablet, error)
	UpdateTabletEndRow(ctx context.Context, arg UpdateTabletEndRowParams) error
	DeleteTablet(ctx context.Context, id int64) error
	ScanTablets(ctx context.Context, arg ScanTabletsParams) (pgx.Rows, error)

	TryAdvisoryXactLock(ctx context.Context, key int64) (bool, error)
	GetTableLocks(ctx context.Context, tableID string) ([]TableLock, error)
	InsertTableLock(ctx context.Context, arg InsertTableLockParams) error
	DeleteTableLock(ctx context.Context, arg DeleteTableLockParams) (int64, error)

	ReserveDir(ctx context.Context, arg ReserveDirParams) (string, error)
	DeleteDirReservation(ctx context.Context, arg DeleteDirReservationParams) (int64, error)

	UpsertArbitration(ctx context.Context, arg UpsertArbitrationParams) error
	DeleteArbitrations(ctx context.Context, arg DeleteArbitrationsParams) (int64, error)

	NextNameBlock(ctx context.Context) (int64, error)

	ListAbandonedJobs(ctx context.Context, arg ListAbandonedJobsParams) ([]AbandonedJob, error)
}

var _ Querier = (*Queries)(nil)
