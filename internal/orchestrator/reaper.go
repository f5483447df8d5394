// Package orchestrator releases what abandoned bulk imports still hold.
//
// A prepare job that is cancelled between polls, or discarded after
// exhausting its retries, never runs its own Undo. The reaper finds such
// jobs and runs it for them.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dynoinc/skyload/internal/background"
	"github.com/dynoinc/skyload/internal/bulk"
	"github.com/dynoinc/skyload/internal/database"
)

// Config holds the configuration for the reaper.
type Config struct {
	Enabled   bool          `default:"true"`
	Interval  time.Duration `default:"30s"`
	BatchSize int32         `split_words:"true" default:"100"`
}

type Reaper struct {
	config Config
	q      database.Querier
	env    *bulk.Env
}

func NewReaper(cfg Config, q database.Querier, env *bulk.Env) *Reaper {
	return &Reaper{
		config: cfg,
		q:      q,
		env:    env,
	}
}

// Run reaps every interval until ctx is done.
func (r *Reaper) Run(ctx context.Context) {
	slog.InfoContext(ctx, "starting undo reaper", "enabled", r.config.Enabled, "interval", r.config.Interval)
	if !r.config.Enabled {
		return
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := r.ReapOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to reap abandoned bulk imports", "error", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

// ReapOnce undoes one batch of abandoned imports and returns how many were
// released.
func (r *Reaper) ReapOnce(ctx context.Context) (int, error) {
	jobs, err := r.q.ListAbandonedJobs(ctx, database.ListAbandonedJobsParams{
		Kind:  bulk.PrepareKind,
		Limit: r.config.BatchSize,
	})
	if err != nil {
		return 0, fmt.Errorf("listing abandoned jobs: %w", err)
	}

	released := 0
	for _, job := range jobs {
		var args background.PrepareBulkImportArgs
		if err := json.Unmarshal(job.Args, &args); err != nil {
			slog.ErrorContext(ctx, "skipping job with unreadable args", "jobID", job.ID, "error", err)
			continue
		}

		if err := bulk.NewPrepare(r.env, args.Info).Undo(ctx, args.TxID); err != nil {
			slog.ErrorContext(ctx, "failed to undo abandoned bulk import", "jobID", job.ID, "txID", args.TxID, "error", err)
			continue
		}

		slog.InfoContext(ctx, "undid abandoned bulk import", "jobID", job.ID, "txID", args.TxID, "state", job.State)
		released++
	}

	return released, nil
}
