package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// MemoryObjectStorage keeps objects in memory and signs nothing. It backs
// local development and tests.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// MemoryObject is a stored object
type MemoryObject struct {
	Data        []byte
	ContentType string
}

var _ ObjectStorage = (*MemoryObjectStorage)(nil)

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://storage.local",
		objects: make(map[string]MemoryObject),
	}
}

// Upload implements ObjectStorage
func (s *MemoryObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// GenerateDownloadURL implements ObjectStorage
func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.Format(time.RFC3339)), expiresAt, nil
}

// DeleteObject implements ObjectStorage
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(key string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
