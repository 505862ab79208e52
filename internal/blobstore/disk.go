package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"photo-gallery/internal/logging"
)

const metaSuffix = ".json"

// Disk stores each blob as a file named by its key inside dir, with a JSON
// sidecar holding the content type.
type Disk struct {
	dir   string
	retry RetryConfig
	mu    sync.Mutex
}

// NewDisk creates dir if needed and returns a store rooted there.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	logging.Debug("Disk blob store at %s", dir)
	return &Disk{dir: dir, retry: DefaultRetryConfig()}, nil
}

func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key)
}

func (d *Disk) Put(ctx context.Context, contentType string, data []byte) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	b := Blob{
		Key:         KeyFor(data),
		ContentType: sniff(contentType, data),
		Size:        int64(len(data)),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, err := d.readMeta(b.Key); err == nil {
		return existing, nil
	}

	// Write to a temp file and rename so readers never see a partial blob.
	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return Blob{}, fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return Blob{}, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Blob{}, fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmpName, d.path(b.Key)); err != nil {
		os.Remove(tmpName)
		return Blob{}, fmt.Errorf("store blob: %w", err)
	}

	meta, err := json.Marshal(b)
	if err != nil {
		return Blob{}, err
	}
	if err := os.WriteFile(d.path(b.Key)+metaSuffix, meta, 0644); err != nil {
		return Blob{}, fmt.Errorf("write blob metadata: %w", err)
	}
	return b, nil
}

func (d *Disk) Get(ctx context.Context, key string) (Blob, []byte, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, nil, err
	}
	if err := checkKey(key); err != nil {
		return Blob{}, nil, err
	}

	b, err := d.readMeta(key)
	if err != nil {
		return Blob{}, nil, err
	}
	data, err := readFile(d.path(key), d.retry)
	if errors.Is(err, fs.ErrNotExist) {
		return Blob{}, nil, ErrNotFound
	}
	if err != nil {
		return Blob{}, nil, fmt.Errorf("read blob: %w", err)
	}
	return b, data, nil
}

func (d *Disk) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	err := os.Remove(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if err := os.Remove(d.path(key) + metaSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("Failed to remove blob metadata for %s: %v", key, err)
	}
	return nil
}

// Count scans the directory for stored blobs.
func (d *Disk) Count() int {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		logging.Warn("Failed to list blob directory %s: %v", d.dir, err)
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && ValidKey(e.Name()) {
			n++
		}
	}
	return n
}

func (d *Disk) readMeta(key string) (Blob, error) {
	raw, err := readFile(d.path(key)+metaSuffix, d.retry)
	if errors.Is(err, fs.ErrNotExist) {
		return Blob{}, ErrNotFound
	}
	if err != nil {
		return Blob{}, fmt.Errorf("read blob metadata: %w", err)
	}
	var b Blob
	if err := json.Unmarshal(raw, &b); err != nil {
		return Blob{}, fmt.Errorf("decode blob metadata %s: %w", key, err)
	}
	return b, nil
}
