package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/mwantia/fileobj/data"
)

// MemoryCatalog keeps all entries in process memory.
// Contents are gone when the process exits, which is exactly what test
// harnesses and single-run compilations want.
type MemoryCatalog struct {
	mu sync.RWMutex

	name    string
	entries *btree.Map[string, *memoryEntry]
}

type memoryEntry struct {
	content []byte
	stat    *data.ResourceStat
}

// NewMemoryCatalog creates an empty in-memory catalog.
// An empty name defaults to "memory".
func NewMemoryCatalog(name string) *MemoryCatalog {
	if name == "" {
		name = "memory"
	}

	return &MemoryCatalog{
		name:    name,
		entries: btree.NewMap[string, *memoryEntry](0),
	}
}

// Name returns the identifier name defined for this catalog
func (mc *MemoryCatalog) Name() string {
	return mc.name
}

// Open is part of the lifecycle behavious and gets called when opening this catalog.
func (mc *MemoryCatalog) Open(ctx context.Context) error {
	// No initialization needed - catalog is ready to use
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this catalog.
func (mc *MemoryCatalog) Close(ctx context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.entries.Clear()

	return nil
}

// Put stores content under a key, replacing any previous version.
// The content slice must not be modified afterwards.
func (mc *MemoryCatalog) Put(ctx context.Context, key string, content []byte) (*data.ResourceStat, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stat := data.NewStat(key, int64(len(content)))

	mc.entries.Set(key, &memoryEntry{
		content: content,
		stat:    stat,
	})

	return stat, nil
}

// Get opens a fresh reader over the stored content.
func (mc *MemoryCatalog) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, exists := mc.entries.Get(key)
	if !exists {
		return nil, fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
	}

	return io.NopCloser(bytes.NewReader(entry.content)), nil
}

// Stat reports metadata for a stored resource.
func (mc *MemoryCatalog) Stat(ctx context.Context, key string) (*data.ResourceStat, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	entry, exists := mc.entries.Get(key)
	if !exists {
		return nil, fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
	}

	return entry.stat, nil
}

// List reports all stored resources under a key prefix in lexical order.
func (mc *MemoryCatalog) List(ctx context.Context, prefix string) ([]*data.ResourceStat, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	stats := make([]*data.ResourceStat, 0)
	mc.entries.Scan(func(key string, entry *memoryEntry) bool {
		if strings.HasPrefix(key, prefix) {
			stats = append(stats, entry.stat)
		}
		return true
	})

	return stats, nil
}

// Delete removes a stored resource.
func (mc *MemoryCatalog) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.entries.Get(key); !exists {
		return fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
	}

	mc.entries.Delete(key)

	return nil
}
