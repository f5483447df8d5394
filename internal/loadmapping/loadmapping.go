// Package loadmapping reads and writes the load mapping that bulk import
// clients generate: an ordered list of tablets and the files destined for
// each of them.
package loadmapping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/dynoinc/skyload/internal/keyrange"
)

// FileName is the name of the load mapping inside a source directory.
const FileName = "loadmap.json"

// ErrOutOfOrder is returned when the mapping's tablets are not sorted
// or overlap.
var ErrOutOfOrder = errors.New("load mapping tablets out of order")

// FileInfo describes one data file in the mapping.
type FileInfo struct {
	Name             string `json:"name"`
	EstimatedEntries int64  `json:"estimated_entries"`
	EstimatedSize    int64  `json:"estimated_size"`
}

type tablet struct {
	PrevEndRow []byte `json:"prev_end_row"`
	EndRow     []byte `json:"end_row"`
}

type entryJSON struct {
	Tablet tablet     `json:"tablet"`
	Files  []FileInfo `json:"files"`
}

// Entry assigns a set of files to a tablet.
type Entry struct {
	Range keyrange.KeyRange
	Files []FileInfo
}

// Opener opens a file for reading.
type Opener interface {
	Open(ctx context.Context, p string) (io.ReadCloser, error)
}

// Reader streams entries from a load mapping. It must be closed.
type Reader struct {
	tableID string
	rc      io.ReadCloser
	dec     *json.Decoder
	started bool
	done    bool
	last    *keyrange.KeyRange
	err     error
}

// Open starts reading the load mapping in sourceDir for tableID.
func Open(ctx context.Context, fs Opener, sourceDir, tableID string) (*Reader, error) {
	rc, err := fs.Open(ctx, path.Join(sourceDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening load mapping: %w", err)
	}
	return NewReader(rc, tableID), nil
}

// NewReader reads a load mapping from rc, attributing every range to tableID.
func NewReader(rc io.ReadCloser, tableID string) *Reader {
	return &Reader{tableID: tableID, rc: rc, dec: json.NewDecoder(rc)}
}

// Next returns the next entry. It returns false at the end of the mapping
// or on error; Err distinguishes the two.
func (r *Reader) Next() (Entry, bool) {
	if r.done {
		return Entry{}, false
	}

	if !r.started {
		r.started = true
		if err := r.expectDelim('['); err != nil {
			return r.fail(err)
		}
	}

	if !r.dec.More() {
		if err := r.expectDelim(']'); err != nil {
			return r.fail(err)
		}
		r.done = true
		return Entry{}, false
	}

	var e entryJSON
	if err := r.dec.Decode(&e); err != nil {
		return r.fail(fmt.Errorf("decoding load mapping entry: %w", err))
	}

	kr, err := keyrange.New(r.tableID, e.Tablet.PrevEndRow, e.Tablet.EndRow)
	if err != nil {
		return r.fail(err)
	}

	if r.last != nil && (r.last.EndRow == nil || keyrange.CompareStart(kr.PrevEndRow, r.last.EndRow) < 0) {
		return r.fail(fmt.Errorf("%w: %s follows %s", ErrOutOfOrder, kr, r.last))
	}
	r.last = &kr

	return Entry{Range: kr, Files: e.Files}, true
}

// Err returns the error that stopped iteration, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	r.done = true
	return r.rc.Close()
}

func (r *Reader) fail(err error) (Entry, bool) {
	r.err = err
	r.done = true
	return Entry{}, false
}

func (r *Reader) expectDelim(want json.Delim) error {
	tok, err := r.dec.Token()
	if err != nil {
		return fmt.Errorf("reading load mapping: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("reading load mapping: expected %q, got %v", want, tok)
	}
	return nil
}

// RangeIterator adapts a Reader to a keyrange.Iterator and remembers the
// names of every file the consumed entries referenced.
type RangeIterator struct {
	r     *Reader
	files map[string]struct{}
}

func Ranges(r *Reader) *RangeIterator {
	return &RangeIterator{r: r, files: map[string]struct{}{}}
}

func (it *RangeIterator) Next() (keyrange.KeyRange, bool) {
	e, ok := it.r.Next()
	if !ok {
		return keyrange.KeyRange{}, false
	}
	for _, f := range e.Files {
		it.files[f.Name] = struct{}{}
	}
	return e.Range, true
}

func (it *RangeIterator) Err() error {
	return it.r.Err()
}

// Files returns the referenced file names seen so far.
func (it *RangeIterator) Files() map[string]struct{} {
	return it.files
}

// Write encodes entries as a load mapping.
func Write(w io.Writer, entries []Entry) error {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		files := e.Files
		if files == nil {
			files = []FileInfo{}
		}
		out = append(out, entryJSON{
			Tablet: tablet{PrevEndRow: e.Range.PrevEndRow, EndRow: e.Range.EndRow},
			Files:  files,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding load mapping: %w", err)
	}
	return nil
}
