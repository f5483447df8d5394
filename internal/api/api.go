// Package api is the HTTP surface for submitting and tracking bulk imports.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"github.com/dynoinc/skyload/internal/background"
	"github.com/dynoinc/skyload/internal/bulk"
	"github.com/dynoinc/skyload/internal/tables"
)

// Jobs submits and inspects bulk import jobs.
type Jobs interface {
	Submit(ctx context.Context, tableID, sourceDir string, setTime bool) (background.Submission, error)
	Get(ctx context.Context, jobID int64) (*rivertype.JobRow, error)
	Cancel(ctx context.Context, jobID int64) (*rivertype.JobRow, error)
}

// RiverJobs implements Jobs with a river client.
type RiverJobs struct {
	Client *river.Client[pgx.Tx]
}

func (r RiverJobs) Submit(ctx context.Context, tableID, sourceDir string, setTime bool) (background.Submission, error) {
	return background.Submit(ctx, r.Client, tableID, sourceDir, setTime)
}

func (r RiverJobs) Get(ctx context.Context, jobID int64) (*rivertype.JobRow, error) {
	return r.Client.JobGet(ctx, jobID)
}

func (r RiverJobs) Cancel(ctx context.Context, jobID int64) (*rivertype.JobRow, error) {
	return r.Client.JobCancel(ctx, jobID)
}

// TableStates looks up tables.
type TableStates interface {
	State(ctx context.Context, tableID string) (tables.State, error)
}

type handler struct {
	jobs   Jobs
	tables TableStates
}

// Register adds the bulk import routes to mux.
func Register(mux *http.ServeMux, jobs Jobs, tableStates TableStates) {
	h := &handler{jobs: jobs, tables: tableStates}
	mux.HandleFunc("POST /v1/bulk-imports", h.submit)
	mux.HandleFunc("GET /v1/bulk-imports/{jobID}", h.get)
	mux.HandleFunc("DELETE /v1/bulk-imports/{jobID}", h.cancel)
}

type submitRequest struct {
	TableID   string `json:"table_id"`
	SourceDir string `json:"source_dir"`
	SetTime   bool   `json:"set_time"`
}

type jobResponse struct {
	JobID       int64      `json:"job_id"`
	TxID        string     `json:"tx_id"`
	State       string     `json:"state"`
	Attempt     int        `json:"attempt"`
	Info        bulk.Info  `json:"info"`
	Errors      []string   `json:"errors,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TableID == "" || req.SourceDir == "" {
		writeError(w, http.StatusBadRequest, "table_id and source_dir are required")
		return
	}

	state, err := h.tables.State(r.Context(), req.TableID)
	if err != nil {
		if errors.Is(err, tables.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "looking up table", "table", req.TableID, "error", err)
		writeError(w, http.StatusInternalServerError, "looking up table")
		return
	}
	if state == tables.StateDeleting {
		writeError(w, http.StatusConflict, "table "+req.TableID+" is being deleted")
		return
	}

	sub, err := h.jobs.Submit(r.Context(), req.TableID, req.SourceDir, req.SetTime)
	if err != nil {
		slog.ErrorContext(r.Context(), "submitting bulk import", "error", err)
		writeError(w, http.StatusInternalServerError, "submitting bulk import")
		return
	}

	writeJSON(w, http.StatusAccepted, sub)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	h.withJob(w, r, h.jobs.Get)
}

// cancel only cancels prepare jobs. Later steps own the import's locks and
// are not released by the reaper.
func (h *handler) cancel(w http.ResponseWriter, r *http.Request) {
	h.withJob(w, r, func(ctx context.Context, jobID int64) (*rivertype.JobRow, error) {
		job, err := h.jobs.Get(ctx, jobID)
		if err != nil || job.Kind != bulk.PrepareKind {
			return job, err
		}
		return h.jobs.Cancel(ctx, jobID)
	})
}

func (h *handler) withJob(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (*rivertype.JobRow, error)) {
	jobID, err := strconv.ParseInt(r.PathValue("jobID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := fn(r.Context(), jobID)
	if errors.Is(err, river.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "reading job", "jobID", jobID, "error", err)
		writeError(w, http.StatusInternalServerError, "reading job")
		return
	}
	if job.Kind != bulk.PrepareKind {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	var args background.PrepareBulkImportArgs
	if err := json.Unmarshal(job.EncodedArgs, &args); err != nil {
		slog.ErrorContext(r.Context(), "decoding job args", "jobID", jobID, "error", err)
		writeError(w, http.StatusInternalServerError, "decoding job")
		return
	}

	resp := jobResponse{
		JobID:       job.ID,
		TxID:        args.TxID,
		State:       string(job.State),
		Attempt:     job.Attempt,
		Info:        args.Info,
		FinalizedAt: job.FinalizedAt,
	}
	for _, e := range job.Errors {
		resp.Errors = append(resp.Errors, e.Error)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
