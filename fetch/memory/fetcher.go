package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/tidwall/btree"

	"github.com/mwantia/fileobj/data"
)

// MemoryFetcher serves addresses from process memory.
// It exists mostly for tests and fixtures that want fully deterministic
// resources without touching disk or network.
type MemoryFetcher struct {
	mu sync.RWMutex

	scheme  string
	entries *btree.Map[string, *memoryEntry]
}

type memoryEntry struct {
	content []byte
	stat    *data.ResourceStat
}

// NewMemoryFetcher creates an empty in-memory fetcher for the given scheme.
// An empty scheme defaults to "mem".
func NewMemoryFetcher(scheme string) *MemoryFetcher {
	if scheme == "" {
		scheme = "mem"
	}

	return &MemoryFetcher{
		scheme:  scheme,
		entries: btree.NewMap[string, *memoryEntry](0),
	}
}

// Scheme returns the address scheme handled by this fetcher
func (mf *MemoryFetcher) Scheme() string {
	return mf.scheme
}

// Open is part of the lifecycle behavious and gets called when opening this fetcher.
func (mf *MemoryFetcher) Open(ctx context.Context) error {
	// No initialization needed - fetcher is ready to use
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher.
func (mf *MemoryFetcher) Close(ctx context.Context) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	mf.entries.Clear()

	return nil
}

// Put stores content under an address.
// The content slice must not be modified afterwards.
func (mf *MemoryFetcher) Put(u *url.URL, content []byte) *data.ResourceStat {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	stat := data.NewStat(u.Path, int64(len(content)))

	mf.entries.Set(u.String(), &memoryEntry{
		content: content,
		stat:    stat,
	})

	return stat
}

// Remove drops the content stored under an address.
func (mf *MemoryFetcher) Remove(u *url.URL) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if _, exists := mf.entries.Get(u.String()); !exists {
		return fmt.Errorf("%w: '%s'", data.ErrNotExist, u)
	}

	mf.entries.Delete(u.String())

	return nil
}

// Fetch opens a fresh reader over the stored content.
func (mf *MemoryFetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	mf.mu.RLock()
	defer mf.mu.RUnlock()

	entry, exists := mf.entries.Get(u.String())
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, u)
	}

	return io.NopCloser(bytes.NewReader(entry.content)), nil
}

// Head reports the stat captured when the content was stored.
func (mf *MemoryFetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	mf.mu.RLock()
	defer mf.mu.RUnlock()

	entry, exists := mf.entries.Get(u.String())
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, u)
	}

	return entry.stat, nil
}

// Keys returns all stored addresses in lexical order.
func (mf *MemoryFetcher) Keys() []string {
	mf.mu.RLock()
	defer mf.mu.RUnlock()

	keys := make([]string, 0, mf.entries.Len())
	mf.entries.Scan(func(key string, _ *memoryEntry) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}
