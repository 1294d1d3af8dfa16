package resolve

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/mwantia/fileobj/data"
)

// ArchiveRoot resolves resource names against the entries of an archive.
// The entry index is built once at open time; hits come back as
// 'jar:file:...!/...' addresses handled by the jar fetcher.
type ArchiveRoot struct {
	mu sync.RWMutex

	fs   afero.Fs
	path string

	entries map[string]struct{}
}

// NewArchiveRoot creates an archive backed root.
// A nil filesystem falls back to the host filesystem.
func NewArchiveRoot(fsys afero.Fs, archivePath string) *ArchiveRoot {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	if abs, err := filepath.Abs(archivePath); err == nil {
		archivePath = abs
	}

	return &ArchiveRoot{
		fs:   fsys,
		path: filepath.ToSlash(filepath.Clean(archivePath)),
	}
}

// Name returns the identifier name defined for this root
func (ar *ArchiveRoot) Name() string {
	return ar.path
}

// Open builds the entry index from the archive central directory.
func (ar *ArchiveRoot) Open(ctx context.Context) error {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	file, err := ar.fs.Open(ar.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: archive '%s' does not exist", data.ErrBackendFailed, ar.path)
		}

		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	reader, err := zip.NewReader(file, info.Size())
	if err != nil {
		return fmt.Errorf("%w: '%s' is not a readable archive: %s", data.ErrBackendFailed, ar.path, err)
	}

	entries := make(map[string]struct{}, len(reader.File))
	for _, entry := range reader.File {
		if strings.HasSuffix(entry.Name, "/") || entry.FileInfo().IsDir() {
			continue
		}
		entries[entry.Name] = struct{}{}
	}

	ar.entries = entries

	return nil
}

// Close drops the entry index.
func (ar *ArchiveRoot) Close(ctx context.Context) error {
	ar.mu.Lock()
	defer ar.mu.Unlock()

	ar.entries = nil

	return nil
}

// Resolve maps a resource name onto an archive entry address.
func (ar *ArchiveRoot) Resolve(ctx context.Context, name string) (*url.URL, error) {
	ar.mu.RLock()
	defer ar.mu.RUnlock()

	normalized := strings.TrimPrefix(name, "/")
	if _, exists := ar.entries[normalized]; !exists {
		return nil, fmt.Errorf("%w: entry '%s' in '%s'", data.ErrNotExist, normalized, ar.path)
	}

	return &url.URL{
		Scheme: data.ArchiveScheme,
		Opaque: fmt.Sprintf("file://%s%s%s", ar.path, data.ArchiveSeparator, "/"+normalized),
	}, nil
}
