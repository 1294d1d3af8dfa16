package fileobj

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/fetch"
)

// resourceObject reads a resolvable resource on demand.
// Construction performs no I/O; content flows on every open.
type resourceObject struct {
	uri    *url.URL
	kind   data.Kind
	source fetch.ByteSource
}

func newResourceObject(u *url.URL, source fetch.ByteSource) *resourceObject {
	return &resourceObject{
		uri:    u,
		kind:   data.DeduceKind(u.Path),
		source: source,
	}
}

func (ro *resourceObject) URI() *url.URL {
	return ro.uri
}

func (ro *resourceObject) Name() string {
	return ro.uri.Path
}

func (ro *resourceObject) Kind() data.Kind {
	return ro.kind
}

// LastModified is unknown for remote resources and reports the zero time.
func (ro *resourceObject) LastModified() time.Time {
	return time.Time{}
}

func (ro *resourceObject) Open(ctx context.Context) (io.ReadCloser, error) {
	return ro.source.Open(ctx)
}

// Text reads the resource to completion on every call.
func (ro *resourceObject) Text(ctx context.Context) (string, error) {
	reader, err := ro.source.Open(ctx)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(content), nil
}

func (ro *resourceObject) OpenWriter(ctx context.Context) (io.WriteCloser, error) {
	return nil, data.ErrReadOnly
}
