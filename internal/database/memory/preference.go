// Package memory хранилище настроек в памяти процесса (STORAGE_DRIVER=memory)
package memory

import (
	"context"
	"sync"
)

type PreferenceStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewPreferenceStorage() *PreferenceStorage {
	return &PreferenceStorage{values: make(map[string]string)}
}

func (s *PreferenceStorage) GetPreference(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *PreferenceStorage) SetPreference(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *PreferenceStorage) RemovePreference(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
