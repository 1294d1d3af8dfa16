// Package fileobj builds virtual file objects for compiler and annotation
// processor test harnesses. File objects wrap in-memory source text,
// resolvable resources and archive entries behind one read-only contract.
package fileobj

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/fetch"
	"github.com/mwantia/fileobj/fetch/file"
	fetchhttp "github.com/mwantia/fileobj/fetch/http"
	"github.com/mwantia/fileobj/fetch/jar"
	"github.com/mwantia/fileobj/log"
	"github.com/mwantia/fileobj/resolve"
)

// FileObject is a single source file, class file or resource handed to a
// toolchain under test.
//
// Implementations are read-only unless documented otherwise; mutating
// operations fail with data.ErrReadOnly.
type FileObject interface {
	// URI returns the identity address of the file object.
	URI() *url.URL
	// Name returns the human readable identity, usually the address path.
	Name() string
	// Kind returns the content classification of the file object.
	Kind() data.Kind
	// LastModified returns the content timestamp.
	// The zero time means the timestamp is unknown or not applicable.
	LastModified() time.Time

	// Open returns a reader over the content.
	// Every call returns an independent stream positioned at the start.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Text reads the full content and decodes it as a string.
	Text(ctx context.Context) (string, error)
	// OpenWriter returns a writer replacing the content on close.
	// Read-only file objects fail with data.ErrReadOnly.
	OpenWriter(ctx context.Context) (io.WriteCloser, error)
}

// Factory creates file objects from addresses and search path names.
// It owns the fetcher registry and the search path used to back them.
type Factory struct {
	log      *log.Logger
	registry *fetch.Registry
	resolver *resolve.Resolver
}

func NewFactory(opts ...FactoryOption) (*Factory, error) {
	options := newDefaultFactoryOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := log.NewLogger("fileobj", options.LogLevel, options.LogFile, options.NoTerminalLog)

	f := &Factory{
		log:      logger,
		registry: fetch.NewRegistry(logger.Named("fetch")),
		resolver: resolve.NewResolver(logger.Named("resolve"), options.Roots...),
	}

	// Custom fetchers register first so they shadow built-in schemes
	for _, fetcher := range options.Fetchers {
		if err := f.registry.Register(fetcher); err != nil {
			return nil, err
		}
	}

	if err := f.registerDefaults(options); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Factory) registerDefaults(options *FactoryOptions) error {
	defaults := []fetch.Fetcher{
		file.NewFileFetcher(options.FileSystem),
		fetchhttp.NewHTTPFetcher("http", options.HTTPClient),
		fetchhttp.NewHTTPFetcher("https", options.HTTPClient),
		jar.NewJarFetcher(f.registry),
	}

	for _, fetcher := range defaults {
		if _, exists := f.registry.Fetcher(fetcher.Scheme()); exists {
			continue
		}
		if err := f.registry.Register(fetcher); err != nil {
			return err
		}
	}

	return nil
}

// Open runs the lifecycle open on all fetchers and search path roots.
func (f *Factory) Open(ctx context.Context) error {
	if err := f.registry.Open(ctx); err != nil {
		return err
	}
	if err := f.resolver.Open(ctx); err != nil {
		return err
	}

	f.log.Info("File object factory opened with schemes %v", f.registry.Schemes())
	return nil
}

// Close releases the search path roots first, then the fetchers behind them.
func (f *Factory) Close(ctx context.Context) error {
	errs := &data.Errors{}
	errs.Add(f.resolver.Close(ctx))
	errs.Add(f.registry.Close(ctx))

	f.log.Info("File object factory closed")
	return errs.Errors()
}

// Registry returns the fetch registry for direct fetcher registration.
func (f *Factory) Registry() *fetch.Registry {
	return f.registry
}

// Resolver returns the search path for direct root registration.
func (f *Factory) Resolver() *resolve.Resolver {
	return f.resolver
}

// ForResource returns a read-only file object over the resource behind the
// address. Archive addresses receive the archive entry treatment; their
// entry path is validated here, while all content access stays deferred
// until the first open.
func (f *Factory) ForResource(ctx context.Context, u *url.URL) (FileObject, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: nil address", data.ErrInvalid)
	}

	if u.Scheme == data.ArchiveScheme {
		obj, err := newArchiveObject(u, f.registry)
		if err != nil {
			return nil, err
		}

		f.log.Debug("Created archive entry object for '%s'", u)
		return obj, nil
	}

	f.log.Debug("Created resource object for '%s'", u)
	return newResourceObject(u, f.registry.Source(u)), nil
}

// ForResourceName resolves a relative name on the search path and returns a
// file object over the winning address.
func (f *Factory) ForResourceName(ctx context.Context, name string) (FileObject, error) {
	u, err := f.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	return f.ForResource(ctx, u)
}
