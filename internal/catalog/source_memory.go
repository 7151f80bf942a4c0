package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// MemorySource holds raw descriptors in memory, in insertion order.
type MemorySource struct {
	mu    sync.RWMutex
	order []string
	docs  map[string][]byte
	err   error

	lists atomic.Int64
	reads atomic.Int64
}

func NewMemorySource() *MemorySource {
	return &MemorySource{docs: map[string][]byte{}}
}

// Put stores a raw descriptor under id, keeping the first insertion position.
func (s *MemorySource) Put(id string, descriptor []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		s.order = append(s.order, id)
	}
	s.docs[id] = slices.Clone(descriptor)
}

func (s *MemorySource) PutProduct(p Product) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.Put(p.Slug, b)
	return nil
}

func (s *MemorySource) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
}

// SetErr makes every call fail with err until it is cleared with nil.
func (s *MemorySource) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemorySource) Lists() int64 { return s.lists.Load() }
func (s *MemorySource) Reads() int64 { return s.reads.Load() }

func (s *MemorySource) IDs(ctx context.Context) ([]string, error) {
	s.lists.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.order), nil
}

func (s *MemorySource) Read(ctx context.Context, id string) ([]byte, error) {
	s.reads.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return slices.Clone(b), nil
}
