package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"

	"github.com/spf13/afero"

	"github.com/mwantia/fileobj/data"
)

// FileFetcher serves 'file:' addresses from a filesystem.
// The filesystem is pluggable so tests can run against an in-memory one.
type FileFetcher struct {
	fs afero.Fs
}

// NewFileFetcher creates a filesystem backed fetcher.
// A nil filesystem falls back to the host filesystem.
func NewFileFetcher(fsys afero.Fs) *FileFetcher {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &FileFetcher{
		fs: fsys,
	}
}

// Scheme returns the address scheme handled by this fetcher
func (*FileFetcher) Scheme() string {
	return "file"
}

// Open is part of the lifecycle behaviour and gets called when opening this fetcher
func (ff *FileFetcher) Open(ctx context.Context) error {
	// Nothing to initialize - the filesystem exists independently
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher
func (ff *FileFetcher) Close(ctx context.Context) error {
	// The underlying filesystem persists independently
	return nil
}

// Fetch opens a fresh reader over the file behind the address.
func (ff *FileFetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	path, err := ff.resolvePath(u)
	if err != nil {
		return nil, err
	}

	info, err := ff.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, path)
		}

		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: '%s'", data.ErrIsDirectory, path)
	}

	return ff.fs.Open(path)
}

// Head reports file metadata without opening the content.
func (ff *FileFetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	path, err := ff.resolvePath(u)
	if err != nil {
		return nil, err
	}

	info, err := ff.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, path)
		}

		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: '%s'", data.ErrIsDirectory, path)
	}

	return &data.ResourceStat{
		Key:         path,
		Size:        info.Size(),
		ModifyTime:  info.ModTime(),
		ContentType: data.GetMIMEType(path),
	}, nil
}

// resolvePath extracts the filesystem path from a file address.
func (ff *FileFetcher) resolvePath(u *url.URL) (string, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	if path == "" {
		return "", fmt.Errorf("%w: file address '%s' carries no path", data.ErrMalformedAddress, u)
	}

	return path, nil
}
