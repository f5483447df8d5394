// Package bulk prepares a directory of externally written files for loading
// into a table: it verifies the client's load mapping against the table's
// current tablets and stages the files under fresh names.
package bulk

import (
	"context"
	"io"
	"time"

	"github.com/dynoinc/skyload/internal/naming"
	"github.com/dynoinc/skyload/internal/storage"
	"github.com/dynoinc/skyload/internal/tables"
	"github.com/dynoinc/skyload/internal/tablets"
)

const (
	PrepareKind = "PrepareBulkImport"
	MoveKind    = "MoveBulkFiles"
)

// Info is everything the bulk import steps know about one import. It is
// persisted between steps and handed to the next step unchanged on success.
type Info struct {
	TableID    string       `json:"table_id"`
	SourceDir  string       `json:"source_dir"`
	SetTime    bool         `json:"set_time"`
	BulkDir    string       `json:"bulk_dir,omitempty"`
	TableState tables.State `json:"table_state,omitempty"`
}

// Next names the step to run after a successful Call.
type Next struct {
	Kind string `json:"kind"`
	Info Info   `json:"info"`
}

// Step is one unit of a bulk import as driven by the job engine.
//
// IsReady is polled until it returns zero and must not block. Call runs
// once per attempt and may be re-run from scratch after a crash. Undo
// releases whatever IsReady and Call acquired and is safe to run at any
// point, including more than once.
type Step interface {
	Kind() string
	IsReady(ctx context.Context, txID string) (time.Duration, error)
	Call(ctx context.Context, txID string) (Next, error)
	Undo(ctx context.Context, txID string) error
}

type Phase int

const (
	PhaseSubmitted Phase = iota
	PhaseReserving
	PhaseChecking
	PhaseStaging
	PhaseCommitted
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitted:
		return "submitted"
	case PhaseReserving:
		return "reserving"
	case PhaseChecking:
		return "checking"
	case PhaseStaging:
		return "staging"
	case PhaseCommitted:
		return "committed"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// FS is the subset of storage.FS the step needs.
type FS interface {
	List(ctx context.Context, dir string) ([]storage.Entry, error)
	Mkdir(ctx context.Context, dir string) (bool, error)
	MkdirAll(ctx context.Context, dir string) error
	Create(ctx context.Context, p string) (io.WriteCloser, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

type TableLocker interface {
	TryReadLock(ctx context.Context, tableID, txID string) (bool, error)
	Unlock(ctx context.Context, tableID, txID string) error
}

type DirReserver interface {
	Reserve(ctx context.Context, dir, txID string) (time.Duration, error)
	Unreserve(ctx context.Context, dir, txID string) error
}

type Arbitrator interface {
	Cleanup(ctx context.Context, kind, txID string) error
}

type TableStates interface {
	State(ctx context.Context, tableID string) (tables.State, error)
	Invalidate()
}

type Servers interface {
	Online() []string
}

// Config controls staging.
type Config struct {
	Extensions    []string        `default:"rf,map"`
	MkdirBackoff  time.Duration   `split_words:"true" default:"3s"`
	MkdirAttempts int             `split_words:"true" default:"0"`
	Volumes       storage.Volumes `default:"/"`
	Naming        naming.Config
}

// Env is shared by every Prepare step of a process.
type Env struct {
	Config Config

	Locks        TableLocker
	Reservations DirReserver
	Arbitrator   Arbitrator
	Servers      Servers
	Tables       TableStates
	Tablets      tablets.Source
	Namer        naming.Allocator
	FS           FS
}

func (e *Env) validExtension(ext string) bool {
	for _, v := range e.Config.Extensions {
		if v == ext {
			return true
		}
	}
	return false
}
