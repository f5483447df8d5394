package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lithammer/shortuuid/v4"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/dynoinc/skyload/internal/bulk"
	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/locks"
)

type PrepareBulkImportArgs struct {
	TxID string    `json:"tx_id"`
	Info bulk.Info `json:"info"`
}

func (PrepareBulkImportArgs) Kind() string {
	return bulk.PrepareKind
}

// MoveBulkFilesArgs hands a prepared import to the move step. The move step
// owns the table lock and directory reservation from here on.
type MoveBulkFilesArgs struct {
	TxID string    `json:"tx_id"`
	Info bulk.Info `json:"info"`
}

func (MoveBulkFilesArgs) Kind() string {
	return bulk.MoveKind
}

func (MoveBulkFilesArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: MoveQueue}
}

type PrepareBulkImportWorker struct {
	river.WorkerDefaults[PrepareBulkImportArgs]

	db      *pgxpool.Pool
	env     *bulk.Env
	timeout time.Duration
}

func NewPrepareBulkImportWorker(db *pgxpool.Pool, env *bulk.Env, timeout time.Duration) *PrepareBulkImportWorker {
	return &PrepareBulkImportWorker{
		db:      db,
		env:     env,
		timeout: timeout,
	}
}

func (w *PrepareBulkImportWorker) Timeout(*river.Job[PrepareBulkImportArgs]) time.Duration {
	return w.timeout
}

func (w *PrepareBulkImportWorker) Work(ctx context.Context, job *river.Job[PrepareBulkImportArgs]) error {
	txID := job.Args.TxID
	step := bulk.NewPrepare(w.env, job.Args.Info)

	delay, err := step.IsReady(ctx, txID)
	if err != nil {
		return fmt.Errorf("checking readiness: %w", err)
	}
	if delay > 0 {
		return river.JobSnooze(delay)
	}

	next, err := step.Call(ctx, txID)
	if err != nil {
		if uerr := step.Undo(ctx, txID); uerr != nil {
			// Retried from scratch; Undo runs again on the next failure.
			return fmt.Errorf("undoing failed bulk import: %w", errors.Join(err, uerr))
		}

		slog.ErrorContext(ctx, "bulk import failed", "txID", txID, "error", err)
		return river.JobCancel(err)
	}

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	client, err := river.ClientFromContextSafely[pgx.Tx](ctx)
	if err != nil {
		return fmt.Errorf("getting river client: %w", err)
	}

	// Storage servers may load files for txID from here on.
	if err := locks.NewArbitrator(database.New(tx)).Start(ctx, locks.BulkTx, txID); err != nil {
		return err
	}

	if _, err := client.InsertTx(ctx, tx, MoveBulkFilesArgs{TxID: txID, Info: next.Info}, nil); err != nil {
		return fmt.Errorf("scheduling %s: %w", next.Kind, err)
	}

	if _, err := river.JobCompleteTx[*riverpgxv5.Driver](ctx, tx, job); err != nil {
		return fmt.Errorf("completing job: %w", err)
	}

	return tx.Commit(ctx)
}

// Submission identifies a submitted bulk import.
type Submission struct {
	TxID  string `json:"tx_id"`
	JobID int64  `json:"job_id"`
}

// Submit starts a bulk import of sourceDir into tableID.
func Submit(ctx context.Context, client *river.Client[pgx.Tx], tableID, sourceDir string, setTime bool) (Submission, error) {
	txID := shortuuid.New()

	res, err := client.Insert(ctx, PrepareBulkImportArgs{
		TxID: txID,
		Info: bulk.Info{TableID: tableID, SourceDir: sourceDir, SetTime: setTime},
	}, nil)
	if err != nil {
		return Submission{}, fmt.Errorf("submitting bulk import: %w", err)
	}

	slog.InfoContext(ctx, "submitted bulk import",
		"txID", txID, "jobID", res.Job.ID, "table", tableID, "source", sourceDir, "phase", bulk.PhaseSubmitted)
	return Submission{TxID: txID, JobID: res.Job.ID}, nil
}
