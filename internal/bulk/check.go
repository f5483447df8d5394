package bulk

import (
	"github.com/cockroachdb/errors"

	"github.com/dynoinc/skyload/internal/keyrange"
	"github.com/dynoinc/skyload/internal/tablets"
)

// TabletIterFactory opens the live tablets of a table, starting with the
// tablet that ends at or after startRow.
type TabletIterFactory func(startRow []byte) (tablets.Iterator, error)

// CheckForMerge verifies that every range of a load mapping still lines up
// with tablet boundaries: each range must start where some live tablet
// starts and end where some live tablet ends. Splits inside a range are
// fine. A range whose start or end is no longer a tablet boundary was
// merged away, and the mapping is rejected with
// ErrConcurrentPartitionChange.
//
// Both sequences are consumed in a single forward pass.
func CheckForMerge(tableID string, ranges keyrange.Iterator, newTabletIter TabletIterFactory) error {
	currRange, ok := ranges.Next()
	if !ok {
		// An empty mapping cannot be invalidated.
		return ranges.Err()
	}

	tabletIter, err := newTabletIter(currRange.PrevEndRow)
	if err != nil {
		return errors.Wrapf(err, "reading tablets of table %s", tableID)
	}
	defer tabletIter.Close()

	currTablet, ok := tabletIter.Next()
	for ok {
		// Find the tablet that starts where the range starts.
		for !keyrange.SameStart(currTablet, currRange) {
			if keyrange.CompareStart(currTablet.PrevEndRow, currRange.PrevEndRow) > 0 {
				return staleMapping(tableID, currRange, currTablet)
			}
			if currTablet, ok = tabletIter.Next(); !ok {
				break
			}
		}
		if !ok {
			break
		}

		// Walk over any tablets the range was split into until one ends
		// where the range ends.
		for !keyrange.SameEnd(currTablet, currRange) {
			if keyrange.CompareEnd(currTablet.EndRow, currRange.EndRow) > 0 {
				return staleMapping(tableID, currRange, currTablet)
			}
			if currTablet, ok = tabletIter.Next(); !ok {
				break
			}
		}
		if !ok {
			break
		}

		// currRange is exactly covered.
		if currRange, ok = ranges.Next(); !ok {
			return ranges.Err()
		}
	}

	if err := tabletIter.Err(); err != nil {
		return errors.Wrapf(err, "reading tablets of table %s", tableID)
	}
	if err := ranges.Err(); err != nil {
		return err
	}

	// Tablets ran out before the mapping did.
	return errors.Wrapf(ErrConcurrentPartitionChange, "table %s: no tablet boundary matches %s", tableID, currRange)
}

func staleMapping(tableID string, r, t keyrange.KeyRange) error {
	return errors.Wrapf(ErrConcurrentPartitionChange, "table %s: mapping range %s is not aligned with tablet %s", tableID, r, t)
}
