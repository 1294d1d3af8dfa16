package resolve

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/fetch"
)

// RemoteRoot resolves resource names below a base address by probing the
// origin through the fetch registry. Anything the registry can head can
// serve as a root, including http servers, s3 buckets and consul trees.
type RemoteRoot struct {
	registry *fetch.Registry
	base     *url.URL
}

func NewRemoteRoot(registry *fetch.Registry, base *url.URL) *RemoteRoot {
	return &RemoteRoot{
		registry: registry,
		base:     base,
	}
}

// Name returns the identifier name defined for this root
func (rr *RemoteRoot) Name() string {
	return rr.base.String()
}

// Open is part of the lifecycle behaviour and gets called when opening this root
func (rr *RemoteRoot) Open(ctx context.Context) error {
	// Verify a fetcher is registered for the base scheme
	if _, exists := rr.registry.Fetcher(rr.base.Scheme); !exists {
		return fmt.Errorf("%w: no fetcher registered for scheme '%s'",
			data.ErrSchemeUnsupported, rr.base.Scheme)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this root
func (rr *RemoteRoot) Close(ctx context.Context) error {
	return nil
}

// Resolve probes the origin for the name and returns the joined address.
func (rr *RemoteRoot) Resolve(ctx context.Context, name string) (*url.URL, error) {
	u := rr.base.JoinPath(strings.TrimPrefix(name, "/"))

	// Names that climb out of the base do not resolve
	if base := strings.TrimSuffix(rr.base.Path, "/"); base != "" {
		if u.Path != base && !strings.HasPrefix(u.Path, base+"/") {
			return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, name)
		}
	}

	if _, err := rr.registry.Head(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}
