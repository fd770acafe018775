package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in a map. Used by tests and the memory backend.
type MemoryStore struct {
	mutex sync.RWMutex
	docs  map[string][]byte

	// returned by every write when set
	failWith error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.docs[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, k := range keys {
		delete(s.docs, k)
	}
	return nil
}

// SetFailure makes subsequent writes fail with err (nil restores normal behaviour).
func (s *MemoryStore) SetFailure(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failWith = err
}

func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.docs)
}

func (s *MemoryStore) Close() error {
	return nil
}
