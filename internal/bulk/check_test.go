package bulk

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynoinc/skyload/internal/keyrange"
	"github.com/dynoinc/skyload/internal/tablets"
)

// kr builds a range of table "1". An empty boundary is infinite.
func kr(prev, end string) keyrange.KeyRange {
	r := keyrange.KeyRange{TableID: "1"}
	if prev != "" {
		r.PrevEndRow = []byte(prev)
	}
	if end != "" {
		r.EndRow = []byte(end)
	}
	return r
}

// partition splits the whole key space of table "1" at splits.
func partition(splits ...string) []keyrange.KeyRange {
	var out []keyrange.KeyRange
	prev := ""
	for _, s := range splits {
		out = append(out, kr(prev, s))
		prev = s
	}
	return append(out, kr(prev, ""))
}

type sliceTablets struct {
	keyrange.Iterator
	closed bool
}

func (s *sliceTablets) Close() {
	s.closed = true
}

// sliceSource serves tablets the way the metadata store does: ascending,
// starting at the first tablet ending at or after the start row.
type sliceSource struct {
	tablets []keyrange.KeyRange
	opened  []*sliceTablets
}

func (s *sliceSource) TabletsFrom(_ context.Context, tableID string, startRow []byte) (tablets.Iterator, error) {
	var out []keyrange.KeyRange
	for _, t := range s.tablets {
		if t.TableID != tableID {
			continue
		}
		if startRow != nil && keyrange.CompareEnd(t.EndRow, startRow) < 0 {
			continue
		}
		out = append(out, t)
	}

	it := &sliceTablets{Iterator: keyrange.SliceIterator(out...)}
	s.opened = append(s.opened, it)
	return it, nil
}

func (s *sliceSource) factory() TabletIterFactory {
	return func(startRow []byte) (tablets.Iterator, error) {
		return s.TabletsFrom(context.Background(), "1", startRow)
	}
}

func TestCheckForMerge(t *testing.T) {
	tests := []struct {
		name    string
		mapping []keyrange.KeyRange
		tablets []keyrange.KeyRange
		stale   bool
	}{
		{
			name:    "identical partitions",
			mapping: partition("c", "m", "t"),
			tablets: partition("c", "m", "t"),
		},
		{
			name:    "single tablet table",
			mapping: partition(),
			tablets: partition(),
		},
		{
			name:    "empty mapping",
			mapping: nil,
			tablets: partition("c"),
		},
		{
			name:    "range split in two",
			mapping: []keyrange.KeyRange{kr("a", "c")},
			tablets: partition("a", "b", "c"),
		},
		{
			name:    "whole table split",
			mapping: partition(),
			tablets: partition("b", "k", "x"),
		},
		{
			name:    "subset of tablets",
			mapping: []keyrange.KeyRange{kr("c", "m"), kr("t", "")},
			tablets: partition("c", "f", "m", "t"),
		},
		{
			name:    "first tablet only",
			mapping: []keyrange.KeyRange{kr("", "c")},
			tablets: partition("c", "m"),
		},
		{
			name:    "two ranges merged",
			mapping: []keyrange.KeyRange{kr("a", "b"), kr("b", "c")},
			tablets: partition("a", "c"),
			stale:   true,
		},
		{
			name:    "merged at the table start",
			mapping: partition("c"),
			tablets: partition(),
			stale:   true,
		},
		{
			name:    "end moved forward",
			mapping: []keyrange.KeyRange{kr("a", "b")},
			tablets: partition("a", "bb"),
			stale:   true,
		},
		{
			name:    "end moved back",
			mapping: []keyrange.KeyRange{kr("a", "b")},
			tablets: partition("a", "ab"),
			stale:   true,
		},
		{
			name:    "start moved",
			mapping: []keyrange.KeyRange{kr("b", "d")},
			tablets: partition("a", "d"),
			stale:   true,
		},
		{
			name:    "tablets run out",
			mapping: []keyrange.KeyRange{kr("c", "m"), kr("m", "")},
			tablets: []keyrange.KeyRange{kr("", "c"), kr("c", "m")},
			stale:   true,
		},
		{
			name:    "later range merged",
			mapping: []keyrange.KeyRange{kr("", "c"), kr("c", "f"), kr("f", "m"), kr("m", "")},
			tablets: partition("b", "c", "m"),
			stale:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &sliceSource{tablets: tt.tablets}
			err := CheckForMerge("1", keyrange.SliceIterator(tt.mapping...), src.factory())
			if tt.stale {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrConcurrentPartitionChange), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			for _, it := range src.opened {
				assert.True(t, it.closed, "tablet iterator left open")
			}
		})
	}
}

type failingRanges struct {
	keyrange.Iterator
	err error
}

func (f *failingRanges) Err() error {
	return f.err
}

func TestCheckForMergeReportsMappingErrors(t *testing.T) {
	boom := errors.New("truncated mapping")

	// Fails after the first range, which matches.
	ranges := &failingRanges{Iterator: keyrange.SliceIterator(kr("", "c")), err: boom}
	src := &sliceSource{tablets: partition("c")}

	err := CheckForMerge("1", ranges, src.factory())
	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrConcurrentPartitionChange))
}

func TestCheckForMergeFactoryError(t *testing.T) {
	boom := errors.New("metadata unavailable")
	err := CheckForMerge("1", keyrange.SliceIterator(kr("", "")), func([]byte) (tablets.Iterator, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

// randomSplits picks n distinct sorted rows.
func randomSplits(r *rand.Rand, n int) []string {
	seen := map[string]bool{}
	for len(seen) < n {
		seen[fmt.Sprintf("%03d", r.IntN(1000))] = true
	}
	var out []string
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func TestCheckForMergeRandomized(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := range 200 {
		mappingSplits := randomSplits(r, r.IntN(10))
		mapping := partition(mappingSplits...)

		// Additional splits never invalidate a mapping.
		extra := randomSplits(r, r.IntN(10))
		tabletSplits := slices.Compact(slices.Sorted(slices.Values(append(slices.Clone(mappingSplits), extra...))))
		src := &sliceSource{tablets: partition(tabletSplits...)}
		require.NoError(t, CheckForMerge("1", keyrange.SliceIterator(mapping...), src.factory()), "iteration %d", i)

		// Any contiguous window of the mapping is still valid.
		lo := r.IntN(len(mapping))
		hi := lo + 1 + r.IntN(len(mapping)-lo)
		require.NoError(t, CheckForMerge("1", keyrange.SliceIterator(mapping[lo:hi]...), src.factory()), "iteration %d", i)

		if len(mappingSplits) == 0 {
			continue
		}

		// Removing one of the mapping's boundaries from the tablets is a merge.
		drop := mappingSplits[r.IntN(len(mappingSplits))]
		merged := slices.DeleteFunc(slices.Clone(tabletSplits), func(s string) bool { return s == drop })
		src = &sliceSource{tablets: partition(merged...)}
		err := CheckForMerge("1", keyrange.SliceIterator(mapping...), src.factory())
		require.True(t, errors.Is(err, ErrConcurrentPartitionChange), "iteration %d dropped %s: %v", i, drop, err)
	}
}
