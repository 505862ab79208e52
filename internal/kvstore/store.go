package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Keys of the shared namespace. Each holds one JSON document.
const (
	KeyMediaItems       = "mediaItems"
	KeyAdBanners        = "adBanners"
	KeyAdmins           = "admins"
	KeyAuth             = "auth"
	KeyVisits           = "visits"
	KeyFrontendPassword = "frontendPassword"
	KeyAdminPassword    = "adminPassword"
)

// ErrMalformed is returned when a stored value cannot be decoded.
var ErrMalformed = errors.New("malformed stored value")

// Store is a flat string-keyed namespace holding one serialized value per key.
// Writes are atomic per key and last write wins. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)
	// Subscribe registers fn to be called with the key after every Set or
	// Delete. fn runs synchronously on the writer's goroutine after the write
	// is visible, so it may call back into the store.
	Subscribe(fn func(key string)) (cancel func())
	Close() error
}

// GetJSON decodes the value under key into v. It reports false with a nil
// error when the key is absent, leaving v untouched.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("%w: key %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// notifier fans write notifications out to subscribers.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(string)
}

func (n *notifier) Subscribe(fn func(key string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]func(string))
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) notify(key string) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(string), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}
