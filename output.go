package fileobj

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwantia/fileobj/data"
)

// outputObject is a writable in-memory file object for generated content.
// Readers always see the last closed write; an open writer publishes its
// buffer atomically on close.
type outputObject struct {
	mu sync.RWMutex

	id   string
	uri  *url.URL
	kind data.Kind

	content      []byte
	lastModified time.Time
}

// ForOutput returns an empty writable file object for generated content.
// The identity derives from the class name the same way source identities
// do, prefixed with the in-memory scheme.
func ForOutput(fullyQualifiedName string, kind data.Kind) FileObject {
	path := "/" + strings.ReplaceAll(fullyQualifiedName, ".", "/") + kind.Extension()
	return newOutputObject(&url.URL{Scheme: "mem", Path: path}, kind)
}

func newOutputObject(u *url.URL, kind data.Kind) *outputObject {
	return &outputObject{
		id:   uuid.Must(uuid.NewV7()).String(),
		uri:  u,
		kind: kind,
	}
}

func (oo *outputObject) URI() *url.URL {
	return oo.uri
}

func (oo *outputObject) Name() string {
	return oo.uri.Path
}

func (oo *outputObject) Kind() data.Kind {
	return oo.kind
}

func (oo *outputObject) LastModified() time.Time {
	oo.mu.RLock()
	defer oo.mu.RUnlock()

	return oo.lastModified
}

// Open returns a reader over the published content.
// The content slice is replaced wholesale on publish and never mutated in
// place, so the reader stays valid across later writes.
func (oo *outputObject) Open(ctx context.Context) (io.ReadCloser, error) {
	oo.mu.RLock()
	defer oo.mu.RUnlock()

	return io.NopCloser(bytes.NewReader(oo.content)), nil
}

func (oo *outputObject) Text(ctx context.Context) (string, error) {
	oo.mu.RLock()
	defer oo.mu.RUnlock()

	return string(oo.content), nil
}

// OpenWriter returns a buffering writer.
// The written content becomes visible once the writer is closed.
func (oo *outputObject) OpenWriter(ctx context.Context) (io.WriteCloser, error) {
	return &outputWriter{object: oo}, nil
}

// stat reports the published content as a resource stat.
func (oo *outputObject) stat() *data.ResourceStat {
	oo.mu.RLock()
	defer oo.mu.RUnlock()

	return &data.ResourceStat{
		Key:         strings.TrimPrefix(oo.uri.Path, "/"),
		Size:        int64(len(oo.content)),
		ModifyTime:  oo.lastModified,
		ContentType: data.GetContentType(oo.kind),
		ETag:        oo.id,
	}
}

func (oo *outputObject) publish(content []byte) {
	oo.mu.Lock()
	defer oo.mu.Unlock()

	oo.content = content
	oo.lastModified = time.Now()
}

type outputWriter struct {
	mu     sync.Mutex
	object *outputObject
	buffer bytes.Buffer
	closed bool
}

func (ow *outputWriter) Write(p []byte) (int, error) {
	ow.mu.Lock()
	defer ow.mu.Unlock()

	if ow.closed {
		return 0, data.ErrClosed
	}

	return ow.buffer.Write(p)
}

// Close publishes the buffered content to the owning output object.
func (ow *outputWriter) Close() error {
	ow.mu.Lock()
	defer ow.mu.Unlock()

	if ow.closed {
		return data.ErrClosed
	}
	ow.closed = true

	ow.object.publish(ow.buffer.Bytes())
	return nil
}
