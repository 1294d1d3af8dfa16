package catalog

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/mwantia/fileobj/data"
)

// Fetcher exposes registered catalogs under the 'catalog:' scheme.
// The address host picks the catalog, the path picks the key.
type Fetcher struct {
	mu sync.RWMutex

	catalogs map[string]Catalog
}

func NewFetcher(catalogs ...Catalog) *Fetcher {
	cf := &Fetcher{
		catalogs: make(map[string]Catalog),
	}

	for _, cat := range catalogs {
		cf.catalogs[cat.Name()] = cat
	}

	return cf
}

// Register adds a catalog under its name.
// Registering a second catalog with the same name fails with ErrExist.
func (cf *Fetcher) Register(cat Catalog) error {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	name := cat.Name()
	if _, exists := cf.catalogs[name]; exists {
		return fmt.Errorf("%w: catalog '%s'", data.ErrExist, name)
	}

	cf.catalogs[name] = cat

	return nil
}

// Catalog returns the catalog registered under a name.
func (cf *Fetcher) Catalog(name string) (Catalog, bool) {
	cf.mu.RLock()
	defer cf.mu.RUnlock()

	cat, exists := cf.catalogs[name]
	return cat, exists
}

// Scheme returns the address scheme handled by this fetcher
func (*Fetcher) Scheme() string {
	return Scheme
}

// Open is part of the lifecycle behaviour and gets called when opening this fetcher
func (cf *Fetcher) Open(ctx context.Context) error {
	cf.mu.RLock()
	defer cf.mu.RUnlock()

	errs := &data.Errors{}
	for name, cat := range cf.catalogs {
		if err := cat.Open(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to open catalog '%s': %w", name, err))
		}
	}

	return errs.Errors()
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher
func (cf *Fetcher) Close(ctx context.Context) error {
	cf.mu.RLock()
	defer cf.mu.RUnlock()

	errs := &data.Errors{}
	for name, cat := range cf.catalogs {
		if err := cat.Close(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to close catalog '%s': %w", name, err))
		}
	}

	return errs.Errors()
}

// Fetch opens a fresh reader over the catalog entry behind the address.
func (cf *Fetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	cat, key, err := cf.resolve(u)
	if err != nil {
		return nil, err
	}

	return cat.Get(ctx, key)
}

// Head reports catalog entry metadata without copying the content out.
func (cf *Fetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	cat, key, err := cf.resolve(u)
	if err != nil {
		return nil, err
	}

	return cat.Stat(ctx, key)
}

func (cf *Fetcher) resolve(u *url.URL) (Catalog, string, error) {
	name, key := SplitAddress(u)
	if name == "" || key == "" {
		return nil, "", fmt.Errorf("%w: catalog address '%s' requires catalog and key", data.ErrMalformedAddress, u)
	}

	cat, exists := cf.Catalog(name)
	if !exists {
		return nil, "", fmt.Errorf("%w: catalog '%s'", data.ErrNotExist, name)
	}

	return cat, key, nil
}
