// Package tablets reads and modifies the live partitioning of tables.
package tablets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dynoinc/skyload/internal/database"
	"github.com/dynoinc/skyload/internal/keyrange"
)

// ErrInconsistentMetadata means the tablets read from the metadata do not
// form a gap-free chain. It is usually transient: a split or merge was
// committed while the scan was running.
var ErrInconsistentMetadata = errors.New("inconsistent tablet metadata")

// Iterator streams tablets and holds resources until closed.
type Iterator interface {
	keyrange.Iterator
	Close()
}

// Source produces the current tablets of a table.
type Source interface {
	// TabletsFrom returns tablets in ascending order, starting with the
	// first tablet whose end row is at or after startRow. A nil startRow
	// starts at the first tablet of the table.
	TabletsFrom(ctx context.Context, tableID string, startRow []byte) (Iterator, error)
}

// Store is the Postgres-backed tablet metadata.
type Store struct {
	db database.DB
	q  *database.Queries
}

func NewStore(db database.DB) *Store {
	return &Store{db: db, q: database.New(db)}
}

func (s *Store) TabletsFrom(ctx context.Context, tableID string, startRow []byte) (Iterator, error) {
	rows, err := s.q.ScanTablets(ctx, database.ScanTabletsParams{
		TableID:  tableID,
		StartRow: startRow,
	})
	if err != nil {
		return nil, fmt.Errorf("scanning tablets of table %s: %w", tableID, err)
	}
	return &rowIterator{rows: rows}, nil
}

type rowIterator struct {
	rows pgx.Rows
	prev *keyrange.KeyRange
	done bool
	err  error
}

func (it *rowIterator) Next() (keyrange.KeyRange, bool) {
	if it.done {
		return keyrange.KeyRange{}, false
	}

	if !it.rows.Next() {
		it.done = true
		it.err = it.rows.Err()
		return keyrange.KeyRange{}, false
	}

	var t database.Tablet
	if err := it.rows.Scan(&t.ID, &t.TableID, &t.PrevEndRow, &t.EndRow); err != nil {
		return it.fail(fmt.Errorf("scanning tablet: %w", err))
	}

	kr := keyrange.KeyRange{TableID: t.TableID, PrevEndRow: t.PrevEndRow, EndRow: t.EndRow}
	if it.prev != nil && !keyrange.Follows(*it.prev, kr) {
		return it.fail(fmt.Errorf("%w: %s does not follow %s", ErrInconsistentMetadata, kr, it.prev))
	}
	it.prev = &kr

	return kr, true
}

func (it *rowIterator) Err() error {
	return it.err
}

func (it *rowIterator) Close() {
	it.rows.Close()
}

func (it *rowIterator) fail(err error) (keyrange.KeyRange, bool) {
	it.done = true
	it.err = err
	it.rows.Close()
	return keyrange.KeyRange{}, false
}

// Init gives a table its single initial tablet covering all rows.
func (s *Store) Init(ctx context.Context, tableID string) error {
	if err := s.q.InsertTablet(ctx, database.InsertTabletParams{TableID: tableID}); err != nil {
		return fmt.Errorf("creating initial tablet of table %s: %w", tableID, err)
	}
	return nil
}

// Split splits the tablet containing row so that row becomes an end row.
// Splitting at an existing end row is a no-op.
func (s *Store) Split(ctx context.Context, tableID string, row []byte) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.q.WithTx(tx)
	t, err := qtx.GetTabletContaining(ctx, database.GetTabletContainingParams{TableID: tableID, Row: row})
	if err != nil {
		return fmt.Errorf("finding tablet containing %q: %w", row, err)
	}

	current := keyrange.KeyRange{TableID: tableID, PrevEndRow: t.PrevEndRow, EndRow: t.EndRow}
	if !current.Contains(row) {
		return fmt.Errorf("%w: tablet %s does not contain %q", ErrInconsistentMetadata, current, row)
	}
	if t.EndRow != nil && string(t.EndRow) == string(row) {
		return nil
	}

	// The existing tablet keeps its prev end row and ends at row; the new
	// tablet takes over the rest.
	if err := qtx.UpdateTabletEndRow(ctx, database.UpdateTabletEndRowParams{ID: t.ID, EndRow: row}); err != nil {
		return fmt.Errorf("shrinking tablet: %w", err)
	}
	if err := qtx.InsertTablet(ctx, database.InsertTabletParams{TableID: tableID, PrevEndRow: row, EndRow: t.EndRow}); err != nil {
		return fmt.Errorf("inserting split tablet: %w", err)
	}

	return tx.Commit(ctx)
}

// Merge coalesces every tablet overlapping (start, end] into one tablet.
// Nil bounds are unbounded.
func (s *Store) Merge(ctx context.Context, tableID string, start, end []byte) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.q.WithTx(tx)
	rows, err := qtx.ScanTablets(ctx, database.ScanTabletsParams{TableID: tableID, StartRow: start})
	if err != nil {
		return fmt.Errorf("scanning tablets: %w", err)
	}

	var merged []database.Tablet
	for rows.Next() {
		var t database.Tablet
		if err := rows.Scan(&t.ID, &t.TableID, &t.PrevEndRow, &t.EndRow); err != nil {
			rows.Close()
			return fmt.Errorf("scanning tablet: %w", err)
		}
		// The tablet ending exactly at start lies outside the merge.
		if start != nil && t.EndRow != nil && string(t.EndRow) == string(start) {
			continue
		}
		merged = append(merged, t)
		if keyrange.CompareEnd(t.EndRow, end) >= 0 {
			break
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("scanning tablets: %w", err)
	}

	if len(merged) < 2 {
		return tx.Commit(ctx)
	}

	last := merged[len(merged)-1]
	for _, t := range merged[1:] {
		if err := qtx.DeleteTablet(ctx, t.ID); err != nil {
			return fmt.Errorf("deleting merged tablet: %w", err)
		}
	}
	if err := qtx.UpdateTabletEndRow(ctx, database.UpdateTabletEndRowParams{ID: merged[0].ID, EndRow: last.EndRow}); err != nil {
		return fmt.Errorf("extending tablet: %w", err)
	}

	return tx.Commit(ctx)
}
