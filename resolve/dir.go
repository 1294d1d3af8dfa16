package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mwantia/fileobj/data"
)

// DirRoot resolves resource names against a directory tree.
// Hits come back as 'file:' addresses, so content access runs through
// the file fetcher on the same filesystem.
type DirRoot struct {
	fs  afero.Fs
	dir string
}

// NewDirRoot creates a directory backed root.
// A nil filesystem falls back to the host filesystem; the directory is
// made absolute so resolved addresses stay stable across chdir.
func NewDirRoot(fsys afero.Fs, dir string) *DirRoot {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return &DirRoot{
		fs:  fsys,
		dir: filepath.ToSlash(filepath.Clean(dir)),
	}
}

// Name returns the identifier name defined for this root
func (dr *DirRoot) Name() string {
	return dr.dir
}

// Open is part of the lifecycle behaviour and gets called when opening this root
func (dr *DirRoot) Open(ctx context.Context) error {
	// Verify the root directory exists
	info, err := dr.fs.Stat(dr.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: directory '%s' does not exist", data.ErrBackendFailed, dr.dir)
		}

		return err
	}

	// Ensure the root is a directory
	if !info.IsDir() {
		return fmt.Errorf("%w: '%s' is not a directory", data.ErrBackendFailed, dr.dir)
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this root
func (dr *DirRoot) Close(ctx context.Context) error {
	// The underlying filesystem persists independently
	return nil
}

// Resolve maps a resource name onto a file address below the directory.
func (dr *DirRoot) Resolve(ctx context.Context, name string) (*url.URL, error) {
	resolved := path.Join(dr.dir, strings.TrimPrefix(name, "/"))

	// Names that climb out of the directory do not resolve
	if resolved != dr.dir && !strings.HasPrefix(resolved, strings.TrimSuffix(dr.dir, "/")+"/") {
		return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, name)
	}

	info, err := dr.fs.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, resolved)
		}

		return nil, err
	}

	// Directories do not resolve as resources; let later roots try
	if info.IsDir() {
		return nil, fmt.Errorf("%w: '%s'", data.ErrNotExist, resolved)
	}

	return &url.URL{Scheme: "file", Path: resolved}, nil
}
