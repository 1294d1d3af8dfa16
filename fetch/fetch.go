package fetch

import (
	"context"
	"io"
	"net/url"

	"github.com/mwantia/fileobj/data"
)

// Fetcher retrieves resource content for one address scheme.
type Fetcher interface {
	// Scheme returns the address scheme handled by this fetcher
	Scheme() string
	// Open is part of the lifecycle behavious and gets called when opening this fetcher.
	Open(ctx context.Context) error
	// Close is part of the lifecycle behaviour and gets called when closing this fetcher.
	Close(ctx context.Context) error

	// Fetch opens a fresh reader over the content behind the address.
	// Every call returns an independent stream positioned at the start.
	Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error)
	// Head reports resource metadata without transferring the content.
	Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error)
}

// ByteSource is a repeatable-open view of a single resource address.
type ByteSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
