package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/log"
)

// Registry dispatches resource addresses onto fetchers by scheme.
type Registry struct {
	mu  sync.RWMutex
	log *log.Logger

	fetchers map[string]Fetcher
}

func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Discard()
	}

	return &Registry{
		log:      logger,
		fetchers: make(map[string]Fetcher),
	}
}

// Register adds a fetcher for its scheme.
// Registering a second fetcher for the same scheme fails with ErrExist.
func (r *Registry) Register(f Fetcher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	scheme := f.Scheme()
	if _, exists := r.fetchers[scheme]; exists {
		return fmt.Errorf("%w: fetcher for scheme '%s'", data.ErrExist, scheme)
	}

	r.fetchers[scheme] = f
	r.log.Debug("Registered fetcher for scheme '%s'", scheme)

	return nil
}

// Fetcher returns the fetcher registered for a scheme.
func (r *Registry) Fetcher(scheme string) (Fetcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.fetchers[scheme]
	return f, exists
}

// Schemes returns all registered schemes in no particular order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]string, 0, len(r.fetchers))
	for scheme := range r.fetchers {
		schemes = append(schemes, scheme)
	}

	return schemes
}

// Open runs the lifecycle open on every registered fetcher.
func (r *Registry) Open(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errs := &data.Errors{}
	for scheme, f := range r.fetchers {
		if err := f.Open(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to open fetcher '%s': %w", scheme, err))
		}
	}

	return errs.Errors()
}

// Close runs the lifecycle close on every registered fetcher.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errs := &data.Errors{}
	for scheme, f := range r.fetchers {
		if err := f.Close(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to close fetcher '%s': %w", scheme, err))
		}
	}

	return errs.Errors()
}

// Fetch resolves the fetcher for the address scheme and opens the content.
func (r *Registry) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	f, err := r.dispatch(u)
	if err != nil {
		return nil, err
	}

	r.log.Debug("Fetching '%s'", u)

	return f.Fetch(ctx, u)
}

// Head resolves the fetcher for the address scheme and reports metadata.
func (r *Registry) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	f, err := r.dispatch(u)
	if err != nil {
		return nil, err
	}

	return f.Head(ctx, u)
}

// Source binds an address to this registry as a repeatable-open view.
// Dispatch happens on every open, so fetchers registered later are picked up.
func (r *Registry) Source(u *url.URL) ByteSource {
	return &boundSource{registry: r, url: u}
}

func (r *Registry) dispatch(u *url.URL) (Fetcher, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: nil address", data.ErrInvalid)
	}

	f, exists := r.Fetcher(u.Scheme)
	if !exists {
		return nil, fmt.Errorf("%w: no fetcher registered for scheme '%s'",
			data.ErrSchemeUnsupported, u.Scheme)
	}

	return f, nil
}

type boundSource struct {
	registry *Registry
	url      *url.URL
}

func (bs *boundSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return bs.registry.Fetch(ctx, bs.url)
}
