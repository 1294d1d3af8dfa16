package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/log"
)

// Root is one origin on the resource search path.
// Resolution maps a relative resource name onto a full address without
// transferring the content.
type Root interface {
	// Name returns the identifier name defined for this root
	Name() string
	// Open is part of the lifecycle behaviour and gets called when opening this root.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and gets called when closing this root.
	Close(ctx context.Context) error

	// Resolve maps a resource name onto an address.
	// Names not present on this root fail with ErrNotExist.
	Resolve(ctx context.Context, name string) (*url.URL, error)
}

// Resolver walks an ordered list of roots and takes the first hit.
// Roots registered earlier shadow later ones, mirroring class path order.
type Resolver struct {
	mu  sync.RWMutex
	log *log.Logger

	roots []Root
}

func NewResolver(logger *log.Logger, roots ...Root) *Resolver {
	if logger == nil {
		logger = log.Discard()
	}

	return &Resolver{
		log:   logger,
		roots: roots,
	}
}

// AddRoot appends a root to the end of the search path.
func (r *Resolver) AddRoot(root Root) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots = append(r.roots, root)
	r.log.Debug("Added root '%s' to search path", root.Name())
}

// Roots returns the current search path in resolution order.
func (r *Resolver) Roots() []Root {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roots := make([]Root, len(r.roots))
	copy(roots, r.roots)

	return roots
}

// Open runs the lifecycle open on every root in search path order.
func (r *Resolver) Open(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errs := &data.Errors{}
	for _, root := range r.roots {
		if err := root.Open(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to open root '%s': %w", root.Name(), err))
		}
	}

	return errs.Errors()
}

// Close runs the lifecycle close on every root in reverse order.
func (r *Resolver) Close(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errs := &data.Errors{}
	for i := len(r.roots) - 1; i >= 0; i-- {
		if err := r.roots[i].Close(ctx); err != nil {
			errs.Add(fmt.Errorf("failed to close root '%s': %w", r.roots[i].Name(), err))
		}
	}

	return errs.Errors()
}

// Resolve walks the search path and returns the first address found.
// Names absent from every root fail with ErrNotFound; any other root
// failure aborts the walk immediately.
func (r *Resolver) Resolve(ctx context.Context, name string) (*url.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, root := range r.roots {
		u, err := root.Resolve(ctx, name)
		if err != nil {
			if errors.Is(err, data.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("root '%s': %w", root.Name(), err)
		}

		r.log.Debug("Resolved '%s' to '%s' via root '%s'", name, u, root.Name())

		return u, nil
	}

	return nil, fmt.Errorf("%w: '%s'", data.ErrNotFound, name)
}
