package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory ImageStore used by tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	staged  map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		staged:  make(map[string][]byte),
	}
}

func (s *MemoryStore) Stage(ctx context.Context, r io.Reader) (Staged, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.staged[id] = data
	s.mu.Unlock()

	return &stagedMemory{store: s, id: id}, nil
}

func (s *MemoryStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	data, ok := s.objects[name]
	s.mu.Unlock()
	if !ok {
		return nil, ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Contains reports whether a promoted object with the given name exists.
func (s *MemoryStore) Contains(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok
}

// StagedCount returns the number of objects still in staging.
func (s *MemoryStore) StagedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

type stagedMemory struct {
	store *MemoryStore
	id    string
}

func (st *stagedMemory) Promote(ctx context.Context, name string) error {
	clean, err := SanitizeName(name)
	if err != nil {
		return err
	}

	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	st.store.objects[clean] = st.store.staged[st.id]
	delete(st.store.staged, st.id)
	return nil
}

func (st *stagedMemory) Discard(ctx context.Context) error {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	delete(st.store.staged, st.id)
	return nil
}
