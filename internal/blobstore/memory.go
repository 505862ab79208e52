package blobstore

import (
	"context"
	"sync"
)

type memoryEntry struct {
	blob Blob
	data []byte
}

// Memory keeps blobs in process memory. Everything is lost on restart, while
// catalog records pointing at the blobs survive in the key-value store.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]memoryEntry
}

// NewMemory creates an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]memoryEntry)}
}

func (m *Memory) Put(ctx context.Context, contentType string, data []byte) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	b := Blob{
		Key:         KeyFor(data),
		ContentType: sniff(contentType, data),
		Size:        int64(len(data)),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.blobs[b.Key]; ok {
		return existing.blob, nil
	}
	m.blobs[b.Key] = memoryEntry{blob: b, data: append([]byte(nil), data...)}
	return b, nil
}

func (m *Memory) Get(ctx context.Context, key string) (Blob, []byte, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, nil, err
	}
	if err := checkKey(key); err != nil {
		return Blob{}, nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.blobs[key]
	if !ok {
		return Blob{}, nil, ErrNotFound
	}
	return e.blob, e.data, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
