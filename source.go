package fileobj

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/mwantia/fileobj/data"
)

// sourceObject is an in-memory source file pinned at construction time.
type sourceObject struct {
	uri          *url.URL
	source       string
	lastModified time.Time
}

// ForSourceString returns an in-memory source file object for a fully
// qualified class name and literal source text.
//
// The identity derives from the class name with namespace separators
// replaced by path separators plus the source extension, so
// "com.example.Foo" becomes "com/example/Foo.java". The class name is not
// validated; a malformed name yields a malformed identity.
func ForSourceString(fullyQualifiedName, source string) FileObject {
	return &sourceObject{
		uri:          SourceURI(fullyQualifiedName),
		source:       source,
		lastModified: time.Now(),
	}
}

// ForSourceLines joins the lines with newlines and hands the result to
// ForSourceString.
func ForSourceLines(fullyQualifiedName string, lines ...string) FileObject {
	return ForSourceString(fullyQualifiedName, strings.Join(lines, "\n"))
}

// SourceURI derives the relative identity address for a fully qualified
// class name.
func SourceURI(fullyQualifiedName string) *url.URL {
	return &url.URL{
		Path: strings.ReplaceAll(fullyQualifiedName, ".", "/") + data.KindSource.Extension(),
	}
}

func (so *sourceObject) URI() *url.URL {
	return so.uri
}

func (so *sourceObject) Name() string {
	return so.uri.Path
}

func (so *sourceObject) Kind() data.Kind {
	return data.KindSource
}

// LastModified reports when the file object was constructed.
func (so *sourceObject) LastModified() time.Time {
	return so.lastModified
}

func (so *sourceObject) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(so.source)), nil
}

func (so *sourceObject) Text(ctx context.Context) (string, error) {
	return so.source, nil
}

// OpenWriter always fails since in-memory source objects are read-only.
func (so *sourceObject) OpenWriter(ctx context.Context) (io.WriteCloser, error) {
	return nil, data.ErrReadOnly
}
