package naming

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlocks struct {
	mu    sync.Mutex
	next  int64
	calls int
}

func (f *fakeBlocks) NextNameBlock(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	v := f.next + 1
	f.next += blockSize
	return v, nil
}

func TestSequence_Batches(t *testing.T) {
	src := &fakeBlocks{}
	seq := NewSequence(src)

	first, err := seq.NextName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", first)

	for range blockSize - 1 {
		_, err := seq.NextName(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.calls)

	name, err := seq.NextName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2t", name) // 101 in base 36
	assert.Equal(t, 2, src.calls)
}

func TestSequence_ConcurrentUnique(t *testing.T) {
	src := &fakeBlocks{}
	// Two allocators sharing one source model two processes.
	allocators := []Allocator{NewSequence(src), NewSequence(src)}

	var mu sync.Mutex
	seen := map[string]bool{}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(a Allocator) {
			defer wg.Done()
			for range 250 {
				name, err := a.NextName(context.Background())
				assert.NoError(t, err)

				mu.Lock()
				assert.False(t, seen[name], "duplicate name %s", name)
				seen[name] = true
				mu.Unlock()
			}
		}(allocators[i%2])
	}
	wg.Wait()

	assert.Len(t, seen, 8*250)
}

func TestShortUUID(t *testing.T) {
	a, err := ShortUUID{}.NextName(context.Background())
	require.NoError(t, err)
	b, err := ShortUUID{}.NextName(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNew(t *testing.T) {
	a, err := New(Config{}, &fakeBlocks{})
	require.NoError(t, err)
	assert.IsType(t, &Sequence{}, a)

	a, err = New(Config{Kind: "shortuuid"}, nil)
	require.NoError(t, err)
	assert.IsType(t, ShortUUID{}, a)

	_, err = New(Config{Kind: "random"}, nil)
	require.Error(t, err)
}
