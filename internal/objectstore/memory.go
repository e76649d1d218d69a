package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// memoryStore is used in dev and tests.
type memoryStore struct {
	lock    sync.RWMutex
	objects map[string][]byte
}

var _ Store = (*memoryStore)(nil)

func NewMemoryStore() Store {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStore) Remove(ctx context.Context, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStore) Type() string {
	return "memory"
}
