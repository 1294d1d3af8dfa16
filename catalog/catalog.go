package catalog

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/mwantia/fileobj/data"
)

// Scheme is the address scheme under which catalogs are exposed.
// Addresses take the form 'catalog://<catalog-name>/<key>'.
const Scheme = "catalog"

// Catalog is a named store for generated or published resources.
// Unlike plain fetchers a catalog accepts writes, so toolchains can park
// compilation outputs and fixtures where later steps can resolve them.
type Catalog interface {
	// Name returns the identifier name defined for this catalog
	Name() string
	// Open is part of the lifecycle behaviour and gets called when opening this catalog.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and gets called when closing this catalog.
	Close(ctx context.Context) error

	// Put stores content under a key, replacing any previous version.
	Put(ctx context.Context, key string, content []byte) (*data.ResourceStat, error)
	// Get opens a fresh reader over the stored content.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat reports metadata for a stored resource.
	Stat(ctx context.Context, key string) (*data.ResourceStat, error)
	// List reports all stored resources under a key prefix in lexical order.
	List(ctx context.Context, prefix string) ([]*data.ResourceStat, error)
	// Delete removes a stored resource.
	Delete(ctx context.Context, key string) error
}

// BuildAddress composes the address under which a catalog key is reachable.
func BuildAddress(catalogName, key string) *url.URL {
	return &url.URL{
		Scheme: Scheme,
		Host:   catalogName,
		Path:   "/" + strings.TrimPrefix(key, "/"),
	}
}

// SplitAddress breaks a catalog address into catalog name and key.
func SplitAddress(u *url.URL) (string, string) {
	return u.Host, strings.TrimPrefix(u.Path, "/")
}
