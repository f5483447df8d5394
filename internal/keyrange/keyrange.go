package keyrange

import (
	"bytes"
	"fmt"
)

// KeyRange is a contiguous slice of a table's key space. PrevEndRow is
// exclusive and EndRow is inclusive. A nil PrevEndRow means the range is
// unbounded below, a nil EndRow means it is unbounded above.
type KeyRange struct {
	TableID    string `json:"table_id"`
	PrevEndRow []byte `json:"prev_end_row"`
	EndRow     []byte `json:"end_row"`
}

// New returns a validated KeyRange.
func New(tableID string, prevEndRow, endRow []byte) (KeyRange, error) {
	kr := KeyRange{TableID: tableID, PrevEndRow: prevEndRow, EndRow: endRow}
	if err := kr.Validate(); err != nil {
		return KeyRange{}, err
	}
	return kr, nil
}

// Validate checks that the range is non-empty.
func (kr KeyRange) Validate() error {
	if kr.PrevEndRow != nil && kr.EndRow != nil && bytes.Compare(kr.PrevEndRow, kr.EndRow) >= 0 {
		return fmt.Errorf("invalid range %s: prev end row must sort before end row", kr)
	}
	return nil
}

// rowsEqual treats nil as distinct from an empty row.
func rowsEqual(a, b []byte) bool {
	return (a == nil) == (b == nil) && bytes.Equal(a, b)
}

// SameStart reports whether both ranges start at the same row.
func SameStart(a, b KeyRange) bool {
	return rowsEqual(a.PrevEndRow, b.PrevEndRow)
}

// SameEnd reports whether both ranges end at the same row.
func SameEnd(a, b KeyRange) bool {
	return rowsEqual(a.EndRow, b.EndRow)
}

// Follows reports whether next starts exactly where prev ends.
func Follows(prev, next KeyRange) bool {
	return prev.TableID == next.TableID && prev.EndRow != nil && rowsEqual(prev.EndRow, next.PrevEndRow)
}

// CompareStart orders two prev end rows, nil sorting first.
func CompareStart(a, b []byte) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return bytes.Compare(a, b)
}

// CompareEnd orders two end rows, nil sorting last.
func CompareEnd(a, b []byte) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return bytes.Compare(a, b)
}

// Contains reports whether row falls inside the range.
func (kr KeyRange) Contains(row []byte) bool {
	if kr.PrevEndRow != nil && bytes.Compare(row, kr.PrevEndRow) <= 0 {
		return false
	}
	return kr.EndRow == nil || bytes.Compare(row, kr.EndRow) <= 0
}

func (kr KeyRange) String() string {
	start, end := "-inf", "+inf"
	if kr.PrevEndRow != nil {
		start = fmt.Sprintf("%q", kr.PrevEndRow)
	}
	if kr.EndRow != nil {
		end = fmt.Sprintf("%q", kr.EndRow)
	}
	return fmt.Sprintf("%s(%s,%s]", kr.TableID, start, end)
}

// IsPartition checks that ranges are ordered, gap-free and non-overlapping
// ranges of a single table.
func IsPartition(ranges []KeyRange) error {
	for i, kr := range ranges {
		if err := kr.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}

		prev := ranges[i-1]
		if prev.TableID != kr.TableID {
			return fmt.Errorf("ranges %s and %s belong to different tables", prev, kr)
		}
		if !Follows(prev, kr) {
			return fmt.Errorf("ranges %s and %s are not adjacent", prev, kr)
		}
	}
	return nil
}
