package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore keeps uploads in process memory. Used when no bucket is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	meta Object
	data []byte
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

// Put stores the content read from r.
func (s *MemoryStore) Put(ctx context.Context, name, contentType string, r io.Reader) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, fmt.Errorf("uploads: read content: %w", err)
	}
	obj := Object{
		Key:         NewKey(s.now()),
		Name:        CleanName(name),
		ContentType: contentType,
		Size:        int64(len(data)),
	}

	s.mu.Lock()
	s.objects[obj.Key] = memoryObject{meta: obj, data: data}
	s.mu.Unlock()
	return obj, nil
}

// Open returns a reader over the stored content.
func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, Object{}, err
	}
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Object{}, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}
