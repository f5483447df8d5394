package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynoinc/skyload/internal/background"
	"github.com/dynoinc/skyload/internal/bulk"
	"github.com/dynoinc/skyload/internal/tables"
)

type fakeJobs struct {
	submitted []submitRequest
	jobs      map[int64]*rivertype.JobRow
}

func (f *fakeJobs) Submit(_ context.Context, tableID, sourceDir string, setTime bool) (background.Submission, error) {
	f.submitted = append(f.submitted, submitRequest{TableID: tableID, SourceDir: sourceDir, SetTime: setTime})
	return background.Submission{TxID: "tx1", JobID: 7}, nil
}

func (f *fakeJobs) Get(_ context.Context, jobID int64) (*rivertype.JobRow, error) {
	job, ok := f.jobs[jobID]
	if !ok {
		return nil, river.ErrNotFound
	}
	return job, nil
}

func (f *fakeJobs) Cancel(ctx context.Context, jobID int64) (*rivertype.JobRow, error) {
	job, err := f.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.State = rivertype.JobStateCancelled
	return job, nil
}

type fakeTables map[string]tables.State

func (f fakeTables) State(_ context.Context, tableID string) (tables.State, error) {
	s, ok := f[tableID]
	if !ok {
		return "", tables.ErrNotFound
	}
	return s, nil
}

func newServer(t *testing.T) (*httptest.Server, *fakeJobs) {
	args, err := json.Marshal(background.PrepareBulkImportArgs{
		TxID: "tx1",
		Info: bulk.Info{TableID: "1", SourceDir: "ingest/a"},
	})
	require.NoError(t, err)

	jobs := &fakeJobs{jobs: map[int64]*rivertype.JobRow{
		7: {
			ID:          7,
			Kind:        bulk.PrepareKind,
			State:       rivertype.JobStateRunning,
			Attempt:     1,
			EncodedArgs: args,
			Errors:      []rivertype.AttemptError{{Attempt: 1, Error: "checking readiness: connection reset"}},
		},
		8: {ID: 8, Kind: bulk.MoveKind, State: rivertype.JobStateAvailable, EncodedArgs: args},
	}}

	mux := http.NewServeMux()
	Register(mux, jobs, fakeTables{"1": tables.StateOnline, "3": tables.StateDeleting})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, jobs
}

func TestSubmit(t *testing.T) {
	srv, jobs := newServer(t)

	resp, err := http.Post(srv.URL+"/v1/bulk-imports", "application/json",
		strings.NewReader(`{"table_id":"1","source_dir":"ingest/a","set_time":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	var sub background.Submission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sub))
	assert.Equal(t, background.Submission{TxID: "tx1", JobID: 7}, sub)
	assert.Equal(t, []submitRequest{{TableID: "1", SourceDir: "ingest/a", SetTime: true}}, jobs.submitted)
}

func TestSubmitRejects(t *testing.T) {
	srv, jobs := newServer(t)

	for body, status := range map[string]int{
		`not json`:                          http.StatusBadRequest,
		`{"table_id":"1"}`:                  http.StatusBadRequest,
		`{"table_id":"2","source_dir":"x"}`: http.StatusNotFound,
		`{"table_id":"3","source_dir":"x"}`: http.StatusConflict,
	} {
		resp, err := http.Post(srv.URL+"/v1/bulk-imports", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, body)
	}
	assert.Empty(t, jobs.submitted)
}

func TestGet(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/v1/bulk-imports/7")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var job jobResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	assert.Equal(t, "tx1", job.TxID)
	assert.Equal(t, "running", job.State)
	assert.Equal(t, "ingest/a", job.Info.SourceDir)
	assert.Len(t, job.Errors, 1)

	for path, status := range map[string]int{
		"/v1/bulk-imports/9":   http.StatusNotFound,
		"/v1/bulk-imports/8":   http.StatusNotFound,
		"/v1/bulk-imports/abc": http.StatusBadRequest,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestCancel(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/bulk-imports/7", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var job jobResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	assert.Equal(t, "cancelled", job.State)
}

func TestCancelOtherKind(t *testing.T) {
	srv, jobs := newServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/bulk-imports/8", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, rivertype.JobStateAvailable, jobs.jobs[8].State)
}
