// Package dedupe tracks identities already seen while ingesting a batch.
package dedupe

import (
	"context"
	"strings"
	"sync"
)

// Deduper records identity keys so a batch keeps only the first record per key.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it if not.
	// Keys are compared case-insensitively after trimming spaces.
	SeenAndRecord(ctx context.Context, key string) bool

	// Seen reports whether key was already recorded without recording it.
	Seen(ctx context.Context, key string) bool

	// Size returns the number of distinct keys recorded.
	Size() int
}

// inMemoryDeduper implements Deduper with a map guarded by a mutex.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	maxSize int
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	return d
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (d *inMemoryDeduper) Seen(_ context.Context, key string) bool {
	k := normalize(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[k]
	return ok
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	k := normalize(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[k]; ok {
		return true
	}
	d.seen[k] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
