package fileobj

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/fetch"
)

// archiveObject is a file object for a single entry inside an archive.
// It wraps a resource delegate bound to the full archive address and
// forwards everything except the name report.
type archiveObject struct {
	uri      *url.URL
	delegate *resourceObject
}

// newArchiveObject validates the archive address and builds the delegate.
// The delegate identity is the bare entry path, so kind deduction sees
// the entry extension rather than the archive locator.
func newArchiveObject(u *url.URL, registry *fetch.Registry) (*archiveObject, error) {
	_, entry, err := data.SplitArchiveAddress(u)
	if err != nil {
		return nil, err
	}

	return &archiveObject{
		uri:      u,
		delegate: newResourceObject(&url.URL{Path: entry}, registry.Source(u)),
	}, nil
}

// URI forwards to the delegate, reporting the entry path identity.
func (ao *archiveObject) URI() *url.URL {
	return ao.delegate.URI()
}

// Name reports the scheme specific part of the archive address, keeping
// the archive locator and entry pairing recoverable from the name alone.
func (ao *archiveObject) Name() string {
	return data.SchemeSpecific(ao.uri)
}

func (ao *archiveObject) Kind() data.Kind {
	return ao.delegate.Kind()
}

func (ao *archiveObject) LastModified() time.Time {
	return ao.delegate.LastModified()
}

func (ao *archiveObject) Open(ctx context.Context) (io.ReadCloser, error) {
	return ao.delegate.Open(ctx)
}

func (ao *archiveObject) Text(ctx context.Context) (string, error) {
	return ao.delegate.Text(ctx)
}

func (ao *archiveObject) OpenWriter(ctx context.Context) (io.WriteCloser, error) {
	return ao.delegate.OpenWriter(ctx)
}
