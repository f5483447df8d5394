package loadmapping

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanos-io/objstore"

	"github.com/dynoinc/skyload/internal/keyrange"
	"github.com/dynoinc/skyload/internal/storage"
)

func rng(prev, end string) keyrange.KeyRange {
	r := keyrange.KeyRange{TableID: "t1"}
	if prev != "" {
		r.PrevEndRow = []byte(prev)
	}
	if end != "" {
		r.EndRow = []byte(end)
	}
	return r
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestWriteThenRead(t *testing.T) {
	entries := []Entry{
		{Range: rng("", "c"), Files: []FileInfo{{Name: "f1.rf", EstimatedEntries: 10, EstimatedSize: 100}}},
		{Range: rng("c", "m"), Files: []FileInfo{{Name: "f1.rf"}, {Name: "f2.rf"}}},
		{Range: rng("p", "")},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries))

	rc := &trackingCloser{Reader: &buf}
	r := NewReader(rc, "t1")

	it := Ranges(r)
	got, err := keyrange.Collect(it)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range entries {
		assert.Equal(t, entries[i].Range, got[i], "range %d", i)
	}
	assert.Len(t, it.Files(), 2)

	require.NoError(t, r.Close())
	assert.True(t, rc.closed)

	// Exhausted readers stay exhausted.
	_, ok := r.Next()
	assert.False(t, ok)
}

func TestReadOutOfOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Entry{{Range: rng("m", "p")}, {Range: rng("c", "f")}}))

	r := NewReader(io.NopCloser(&buf), "t1")
	_, ok := r.Next()
	require.True(t, ok)
	_, ok = r.Next()
	require.False(t, ok)
	require.ErrorIs(t, r.Err(), ErrOutOfOrder)
}

func TestReadMalformed(t *testing.T) {
	r := NewReader(io.NopCloser(strings.NewReader(`{"tablet": {}}`)), "t1")
	_, ok := r.Next()
	require.False(t, ok)
	require.Error(t, r.Err())

	r = NewReader(io.NopCloser(strings.NewReader(`[{"tablet": {"prev_end_row": "Yg==", "end_row": "YQ=="}, "files": []}]`)), "t1")
	_, ok = r.Next()
	require.False(t, ok)
	require.Error(t, r.Err(), "prev end row b after end row a")
}

func TestOpenFromFS(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFS(objstore.NewInMemBucket())

	w, err := fs.Create(ctx, "vol/src/"+FileName)
	require.NoError(t, err)
	require.NoError(t, Write(w, []Entry{{Range: rng("", "")}}))
	require.NoError(t, w.Close())

	r, err := Open(ctx, fs, "vol/src", "t1")
	require.NoError(t, err)
	defer r.Close()

	e, ok := r.Next()
	require.True(t, ok)
	assert.Nil(t, e.Range.PrevEndRow)
	assert.Nil(t, e.Range.EndRow)
	assert.Empty(t, e.Files)

	_, err = Open(ctx, fs, "vol/missing", "t1")
	require.Error(t, err)
}
