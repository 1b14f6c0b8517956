package objectstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps objects in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	baseURL string
	objects map[string][]byte
}

// NewMemoryStore returns an empty store reporting locations under bucket or baseURL.
func NewMemoryStore(bucket, baseURL string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		baseURL: baseURL,
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStore) Put(ctx context.Context, name string, data []byte, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.objects[name] = cp
	m.mu.Unlock()

	return Object{
		Bucket:   m.bucket,
		Name:     name,
		Size:     int64(len(data)),
		Location: Location(m.baseURL, m.bucket, name),
	}, nil
}

// Get returns a stored object's bytes.
func (m *MemoryStore) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	return data, ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
