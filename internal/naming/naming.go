// Package naming hands out names that are unique across every process
// sharing the same database.
package naming

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/lithammer/shortuuid/v4"
)

// Allocator returns a new globally unique name on every call. It is safe
// for concurrent use.
type Allocator interface {
	NextName(ctx context.Context) (string, error)
}

// blockSize must match the increment of the unique_names sequence.
const blockSize = 100

// BlockSource reserves blocks of blockSize consecutive values.
type BlockSource interface {
	NextNameBlock(ctx context.Context) (int64, error)
}

// Sequence allocates names from a shared counter, reserving blockSize values
// per round trip and handing them out locally.
type Sequence struct {
	src BlockSource

	mu   sync.Mutex
	next int64
	max  int64
}

func NewSequence(src BlockSource) *Sequence {
	return &Sequence{src: src}
}

func (s *Sequence) NextName(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= s.max {
		start, err := s.src.NextNameBlock(ctx)
		if err != nil {
			return "", fmt.Errorf("reserving names: %w", err)
		}
		s.next, s.max = start, start+blockSize
	}

	name := strconv.FormatInt(s.next, 36)
	s.next++
	return name, nil
}

// Config selects the allocator used for staged file and directory names.
type Config struct {
	Kind string `default:"sequence"`
}

// New returns the allocator named by cfg.Kind: "sequence" (backed by src) or
// "shortuuid".
func New(cfg Config, src BlockSource) (Allocator, error) {
	switch cfg.Kind {
	case "", "sequence":
		return NewSequence(src), nil
	case "shortuuid":
		return ShortUUID{}, nil
	default:
		return nil, fmt.Errorf("unknown name allocator %q", cfg.Kind)
	}
}

// ShortUUID allocates random names and needs no coordination.
type ShortUUID struct{}

func (ShortUUID) NextName(context.Context) (string, error) {
	return shortuuid.New(), nil
}
