package background

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/dynoinc/skyload/internal/bulk"
)

// MoveQueue is worked by the storage servers that move staged files, not
// by this process.
const MoveQueue = "bulk_move"

// Config holds the job engine settings.
type Config struct {
	Workers    int           `default:"8"`
	JobTimeout time.Duration `split_words:"true" default:"10m"`
}

// New creates a river client. With a nil env the client can only insert
// jobs; otherwise it also works bulk import preparation jobs.
func New(db *pgxpool.Pool, cfg Config, env *bulk.Env) (*river.Client[pgx.Tx], error) {
	riverCfg := &river.Config{
		Logger:              slog.Default(),
		SkipUnknownJobCheck: true,
	}

	if env != nil {
		workers := river.NewWorkers()
		river.AddWorker(workers, NewPrepareBulkImportWorker(db, env, cfg.JobTimeout))

		riverCfg.Workers = workers
		riverCfg.Queues = map[string]river.QueueConfig{
			river.QueueDefault: {
				MaxWorkers: cfg.Workers,
			},
		}
	}

	riverClient, err := river.NewClient(riverpgxv5.New(db), riverCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create river client: %w", err)
	}

	return riverClient, nil
}
