package catalog

import (
	"context"
	"net/url"
	"strings"
)

// Root exposes a catalog on the resource search path.
// Resolution probes the catalog by key and hands back a catalog address,
// so content access still runs through the catalog fetcher.
type Root struct {
	catalog Catalog
}

func NewRoot(catalog Catalog) *Root {
	return &Root{
		catalog: catalog,
	}
}

// Name returns the identifier name defined for this root
func (r *Root) Name() string {
	return r.catalog.Name()
}

// Open is part of the lifecycle behaviour and gets called when opening this root
func (r *Root) Open(ctx context.Context) error {
	return r.catalog.Open(ctx)
}

// Close is part of the lifecycle behaviour and gets called when closing this root
func (r *Root) Close(ctx context.Context) error {
	return r.catalog.Close(ctx)
}

// Resolve maps a resource name onto a catalog address if the key exists.
func (r *Root) Resolve(ctx context.Context, name string) (*url.URL, error) {
	key := strings.TrimPrefix(name, "/")

	if _, err := r.catalog.Stat(ctx, key); err != nil {
		return nil, err
	}

	return BuildAddress(r.catalog.Name(), key), nil
}
