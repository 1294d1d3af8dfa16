package jar

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/fetch"
)

// JarFetcher serves 'jar:<archive>!/<entry>' addresses.
// The archive locator is itself an address and runs back through the
// registry, so entries inside local, remote or in-memory archives all work.
type JarFetcher struct {
	registry *fetch.Registry
}

func NewJarFetcher(registry *fetch.Registry) *JarFetcher {
	return &JarFetcher{
		registry: registry,
	}
}

// Scheme returns the address scheme handled by this fetcher
func (*JarFetcher) Scheme() string {
	return data.ArchiveScheme
}

// Open is part of the lifecycle behaviour and gets called when opening this fetcher
func (jf *JarFetcher) Open(ctx context.Context) error {
	// Nothing to initialize - archives are read per request
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher
func (jf *JarFetcher) Close(ctx context.Context) error {
	return nil
}

// Fetch extracts the entry content out of the archive behind the address.
func (jf *JarFetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	reader, entry, err := jf.openArchive(ctx, u)
	if err != nil {
		return nil, err
	}

	file, err := reader.Open(entry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: entry '%s' in '%s'", data.ErrNotExist, entry, u)
		}

		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%w: entry '%s' in '%s'", data.ErrIsDirectory, entry, u)
	}

	return file, nil
}

// Head reports entry metadata from the archive central directory.
func (jf *JarFetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	reader, entry, err := jf.openArchive(ctx, u)
	if err != nil {
		return nil, err
	}

	for _, file := range reader.File {
		if file.Name != entry {
			continue
		}

		info := file.FileInfo()
		if info.IsDir() {
			return nil, fmt.Errorf("%w: entry '%s' in '%s'", data.ErrIsDirectory, entry, u)
		}

		return &data.ResourceStat{
			Key:         entry,
			Size:        info.Size(),
			ModifyTime:  info.ModTime(),
			ContentType: data.GetMIMEType(entry),
		}, nil
	}

	return nil, fmt.Errorf("%w: entry '%s' in '%s'", data.ErrNotExist, entry, u)
}

// openArchive fetches the archive behind the address and maps it as a zip.
// The archive is buffered in memory for the duration of the call.
func (jf *JarFetcher) openArchive(ctx context.Context, u *url.URL) (*zip.Reader, string, error) {
	address, entry, err := data.SplitArchiveAddress(u)
	if err != nil {
		return nil, "", err
	}

	archiveURL, err := url.Parse(address)
	if err != nil {
		return nil, "", fmt.Errorf("%w: archive locator '%s': %s", data.ErrMalformedAddress, address, err)
	}

	content, err := jf.registry.Fetch(ctx, archiveURL)
	if err != nil {
		return nil, "", err
	}
	defer content.Close()

	buffer, err := io.ReadAll(content)
	if err != nil {
		return nil, "", err
	}

	reader, err := zip.NewReader(bytes.NewReader(buffer), int64(len(buffer)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: '%s' is not a readable archive: %s", data.ErrBackendFailed, address, err)
	}

	return reader, strings.TrimPrefix(entry, "/"), nil
}
