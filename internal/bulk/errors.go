package bulk

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/dynoinc/skyload/internal/loadmapping"
)

var (
	// ErrConcurrentPartitionChange means a tablet referenced by the load
	// mapping was split or merged after the mapping was generated. The
	// mapping can never become valid again.
	ErrConcurrentPartitionChange = errors.New("concurrent merge happened")

	// ErrMappingFileMissing means the load mapping names a file that is not
	// a loadable file in the source directory.
	ErrMappingFileMissing = errors.New("load mapping references a file not in the source directory")

	// ErrResource covers storage and metadata failures that abort the
	// import.
	ErrResource = errors.New("bulk import resource failure")
)

// Kind classifies a failed bulk import.
type Kind int

const (
	KindResource Kind = iota
	KindConcurrentPartitionChange
	KindInvalidMapping
)

func (k Kind) String() string {
	switch k {
	case KindConcurrentPartitionChange:
		return "concurrent partition change"
	case KindInvalidMapping:
		return "invalid load mapping"
	default:
		return "resource error"
	}
}

// OperationError is the terminal error reported for a failed import.
type OperationError struct {
	Kind      Kind
	TableID   string
	SourceDir string
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("bulk import of %s into table %s failed (%s): %v", e.SourceDir, e.TableID, e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (p *Prepare) fail(err error) *OperationError {
	kind := KindResource
	switch {
	case errors.Is(err, ErrConcurrentPartitionChange):
		kind = KindConcurrentPartitionChange
		err = errors.WithHint(err, "regenerate the load mapping against the table's current tablets and resubmit")
	case errors.Is(err, ErrMappingFileMissing), errors.Is(err, loadmapping.ErrOutOfOrder):
		kind = KindInvalidMapping
	case !errors.Is(err, ErrResource):
		err = errors.Mark(err, ErrResource)
	}

	return &OperationError{
		Kind:      kind,
		TableID:   p.Info.TableID,
		SourceDir: p.Info.SourceDir,
		Err:       err,
	}
}
