package bulk

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/dynoinc/skyload/internal/loadmapping"
	"github.com/dynoinc/skyload/internal/locks"
	"github.com/dynoinc/skyload/internal/storage"
	"github.com/dynoinc/skyload/internal/tablets"
)

const (
	LockRetry      = 100 * time.Millisecond
	NoServersRetry = 500 * time.Millisecond

	bulkDirPrefix = "b-"
	stagedPrefix  = "I"
)

var stats = newInstruments()

// Prepare is the first step of a bulk import. Once the table is read
// locked and the source directory reserved, it checks that the load
// mapping still matches the table's tablets, allocates a bulk directory
// and writes the rename map the move step works from.
type Prepare struct {
	Info Info

	env   *Env
	phase Phase
}

var _ Step = (*Prepare)(nil)

func NewPrepare(env *Env, info Info) *Prepare {
	return &Prepare{Info: info, env: env}
}

func (p *Prepare) Kind() string {
	return PrepareKind
}

func (p *Prepare) Phase() Phase {
	return p.phase
}

func (p *Prepare) enter(ctx context.Context, txID string, phase Phase) {
	if p.phase == phase {
		return
	}
	slog.DebugContext(ctx, "bulk import phase change",
		"txID", txID, "table", p.Info.TableID, "from", p.phase, "to", phase)
	p.phase = phase
}

// IsReady never waits. A non-zero duration asks the caller to poll again
// after that long.
func (p *Prepare) IsReady(ctx context.Context, txID string) (time.Duration, error) {
	p.enter(ctx, txID, PhaseReserving)

	locked, err := p.env.Locks.TryReadLock(ctx, p.Info.TableID, txID)
	if err != nil {
		return 0, errors.Wrapf(err, "read locking table %s", p.Info.TableID)
	}
	if !locked {
		return stats.notReadyFor(ctx, "table_locked", LockRetry), nil
	}

	if len(p.env.Servers.Online()) == 0 {
		return stats.notReadyFor(ctx, "no_servers", NoServersRetry), nil
	}

	p.env.Tables.Invalidate()

	delay, err := p.env.Reservations.Reserve(ctx, p.Info.SourceDir, txID)
	if err != nil {
		return 0, errors.Wrapf(err, "reserving %s", p.Info.SourceDir)
	}
	if delay > 0 {
		return stats.notReadyFor(ctx, "dir_reserved", delay), nil
	}
	return 0, nil
}

// Call verifies the load mapping and stages the source directory. Every
// error it returns is an *OperationError.
func (p *Prepare) Call(ctx context.Context, txID string) (Next, error) {
	next, err := p.call(ctx, txID)
	if err != nil {
		opErr := p.fail(err)
		p.enter(ctx, txID, PhaseAborted)
		stats.failure(ctx, opErr.Kind)
		return Next{}, opErr
	}
	return next, nil
}

func (p *Prepare) call(ctx context.Context, txID string) (Next, error) {
	p.enter(ctx, txID, PhaseChecking)

	// The read lock is held, so no new merge can commit from here on.
	referenced, err := p.checkForMerge(ctx)
	if err != nil {
		return Next{}, err
	}

	state, err := p.env.Tables.State(ctx, p.Info.TableID)
	if err != nil {
		return Next{}, errors.Wrapf(err, "reading state of table %s", p.Info.TableID)
	}
	p.Info.TableState = state

	p.enter(ctx, txID, PhaseStaging)

	entries, err := p.env.FS.List(ctx, p.Info.SourceDir)
	if err != nil {
		return Next{}, errors.Wrapf(err, "listing %s", p.Info.SourceDir)
	}

	files := p.loadable(ctx, entries)
	if err := checkReferenced(referenced, files); err != nil {
		return Next{}, err
	}

	bulkDir, err := p.createBulkDir(ctx)
	if err != nil {
		return Next{}, err
	}

	renames := make(map[string]string, len(files)+1)
	for _, f := range files {
		name, err := p.env.Namer.NextName(ctx)
		if err != nil {
			return Next{}, errors.Wrap(err, "allocating file name")
		}
		renames[f.name] = stagedPrefix + name + "." + f.ext
	}
	renames[loadmapping.FileName] = loadmapping.FileName

	if err := WriteRenameMap(ctx, p.env.FS, bulkDir, renames); err != nil {
		return Next{}, err
	}

	p.Info.BulkDir = bulkDir
	p.enter(ctx, txID, PhaseCommitted)

	stats.prepared.Add(ctx, 1)
	stats.stagedFiles.Add(ctx, int64(len(files)))
	slog.InfoContext(ctx, "prepared bulk import",
		"txID", txID, "table", p.Info.TableID, "source", p.Info.SourceDir, "bulkDir", bulkDir, "files", len(files))

	return Next{Kind: MoveKind, Info: p.Info}, nil
}

// checkForMerge returns the names of every file the load mapping refers to.
func (p *Prepare) checkForMerge(ctx context.Context) (map[string]struct{}, error) {
	r, err := loadmapping.Open(ctx, p.env.FS, p.Info.SourceDir, p.Info.TableID)
	if err != nil {
		return nil, errors.Wrapf(err, "table %s", p.Info.TableID)
	}
	defer r.Close()

	ranges := loadmapping.Ranges(r)
	err = CheckForMerge(p.Info.TableID, ranges, func(startRow []byte) (tablets.Iterator, error) {
		return p.env.Tablets.TabletsFrom(ctx, p.Info.TableID, startRow)
	})
	if err != nil {
		return nil, err
	}
	return ranges.Files(), nil
}

type loadableFile struct {
	name string
	ext  string
}

// loadable drops entries without a recognized extension. They stay in the
// source directory untouched.
func (p *Prepare) loadable(ctx context.Context, entries []storage.Entry) []loadableFile {
	var files []loadableFile
	for _, e := range entries {
		if e.IsDir {
			slog.WarnContext(ctx, "ignoring directory in bulk import source", "path", e.Path)
			continue
		}

		i := strings.LastIndexByte(e.Name, '.')
		if i < 0 || !p.env.validExtension(e.Name[i+1:]) {
			slog.WarnContext(ctx, "file does not have a valid extension, ignoring", "path", e.Path)
			continue
		}

		files = append(files, loadableFile{name: e.Name, ext: e.Name[i+1:]})
	}
	return files
}

func checkReferenced(referenced map[string]struct{}, files []loadableFile) error {
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f.name] = struct{}{}
	}
	for name := range referenced {
		if _, ok := present[name]; !ok {
			return errors.Wrapf(ErrMappingFileMissing, "%s", name)
		}
	}
	return nil
}

// createBulkDir makes a new uniquely named directory for the staged files
// under the table's directory on the source directory's volume. Names
// already taken by another process are retried with a fresh name.
func (p *Prepare) createBulkDir(ctx context.Context) (string, error) {
	tablesDir, ok := p.env.Config.Volumes.TablesDir(p.Info.SourceDir)
	if !ok {
		return "", errors.Mark(
			errors.Newf("%s is not on any configured volume", p.Info.SourceDir), ErrResource)
	}

	tableDir := path.Join(tablesDir, p.Info.TableID)
	if err := p.env.FS.MkdirAll(ctx, tableDir); err != nil {
		return "", errors.Wrapf(err, "creating %s", tableDir)
	}

	for attempt := 1; ; attempt++ {
		name, err := p.env.Namer.NextName(ctx)
		if err != nil {
			return "", errors.Wrap(err, "allocating bulk directory name")
		}

		bulkDir := path.Join(tableDir, bulkDirPrefix+name)
		created, err := p.env.FS.Mkdir(ctx, bulkDir)
		if err != nil {
			return "", errors.Wrapf(err, "creating %s", bulkDir)
		}
		if created {
			return bulkDir, nil
		}

		stats.mkdirRetry.Add(ctx, 1)
		slog.WarnContext(ctx, "failed to create bulk directory, retrying", "dir", bulkDir, "attempt", attempt)

		if limit := p.env.Config.MkdirAttempts; limit > 0 && attempt >= limit {
			return "", errors.Newf("no bulk directory created under %s after %d attempts", tableDir, attempt)
		}

		timer := time.NewTimer(p.env.Config.MkdirBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

// Undo releases the directory reservation and the table lock, and forgets
// any arbitration state of txID. Releasing something never acquired is a
// no-op.
func (p *Prepare) Undo(ctx context.Context, txID string) error {
	var err error
	if uerr := p.env.Reservations.Unreserve(ctx, p.Info.SourceDir, txID); uerr != nil {
		err = errors.CombineErrors(err, errors.Wrapf(uerr, "unreserving %s", p.Info.SourceDir))
	}
	if uerr := p.env.Locks.Unlock(ctx, p.Info.TableID, txID); uerr != nil {
		err = errors.CombineErrors(err, errors.Wrapf(uerr, "unlocking table %s", p.Info.TableID))
	}
	if uerr := p.env.Arbitrator.Cleanup(ctx, locks.BulkTx, txID); uerr != nil {
		err = errors.CombineErrors(err, errors.Wrap(uerr, "cleaning up arbitration"))
	}
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "released bulk import resources", "txID", txID, "table", p.Info.TableID)
	return nil
}
