package blobstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/blake2b"
)

// ErrNotFound is returned for keys that are not stored.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that are not a BLAKE2b-256 hex digest.
var ErrInvalidKey = errors.New("invalid blob key")

// Blob describes stored bytes
type Blob struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// URL is the path the HTTP layer serves the blob under.
func (b Blob) URL() string {
	return "/blobs/" + b.Key
}

// Store holds uploaded bytes addressed by their content hash. Putting the same
// bytes twice yields the same key and stores them once.
type Store interface {
	Put(ctx context.Context, contentType string, data []byte) (Blob, error)
	Get(ctx context.Context, key string) (Blob, []byte, error)
	Delete(ctx context.Context, key string) error
	Count() int
}

// KeyFor returns the content address of data.
func KeyFor(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidKey reports whether key has the shape KeyFor produces.
func ValidKey(key string) bool {
	if len(key) != blake2b.Size256*2 {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}

// sniff fills in a missing or generic content type from the data itself.
func sniff(contentType string, data []byte) string {
	if contentType == "" || contentType == "application/octet-stream" {
		return http.DetectContentType(data)
	}
	return contentType
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
