package shim

import (
	"context"
	"sync"
)

// MemoryShim keeps cached state in process memory. Used in tests and
// as a last-resort backend when no local storage is configured.
type MemoryShim struct {
	values sync.Map
}

func NewMemoryShim() *MemoryShim {
	return &MemoryShim{}
}

func (s *MemoryShim) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := s.values.Load(key)
	if !ok {
		return "", false, nil
	}
	return val.(string), true, nil
}

func (s *MemoryShim) Set(ctx context.Context, key, value string) error {
	s.values.Store(key, value)
	return nil
}

func (s *MemoryShim) Remove(ctx context.Context, key string) error {
	s.values.Delete(key)
	return nil
}
