package fetch_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/spf13/afero"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/fetch"
	"github.com/mwantia/fileobj/fetch/file"
	"github.com/mwantia/fileobj/fetch/jar"
	"github.com/mwantia/fileobj/fetch/memory"
)

const fixtureContent = "class Foo {}"

// TestFetcherFactory creates a fetcher seeded with one known resource.
type TestFetcherFactory func(t *testing.T) (fetch.Fetcher, *url.URL, error)

// GetTestFetcherFactories returns all hermetic fetcher implementations to test.
func GetTestFetcherFactories() map[string]TestFetcherFactory {
	return map[string]TestFetcherFactory{
		"file": func(t *testing.T) (fetch.Fetcher, *url.URL, error) {
			fsys := afero.NewMemMapFs()
			if err := afero.WriteFile(fsys, "/fixtures/Foo.java", []byte(fixtureContent), 0o644); err != nil {
				return nil, nil, err
			}

			u, err := url.Parse("file:///fixtures/Foo.java")
			if err != nil {
				return nil, nil, err
			}

			return file.NewFileFetcher(fsys), u, nil
		},
		"memory": func(t *testing.T) (fetch.Fetcher, *url.URL, error) {
			u, err := url.Parse("mem:///fixtures/Foo.java")
			if err != nil {
				return nil, nil, err
			}

			mf := memory.NewMemoryFetcher("mem")
			mf.Put(u, []byte(fixtureContent))

			return mf, u, nil
		},
	}
}

// TestAllFetchers_Fetch verifies content retrieval and stream independence
// across all fetcher implementations.
func TestAllFetchers_Fetch(t *testing.T) {
	factories := GetTestFetcherFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := context.Background()

			fetcher, u, err := factory(tst)
			if err != nil {
				tst.Fatalf("Fetcher init failed: %v", err)
			}

			if err := fetcher.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer fetcher.Close(ctx)

			// Every fetch returns an independent stream from the start
			for i := 0; i < 2; i++ {
				reader, err := fetcher.Fetch(ctx, u)
				if err != nil {
					tst.Fatalf("Fetch %d failed: %v", i, err)
				}

				got, err := io.ReadAll(reader)
				reader.Close()
				if err != nil {
					tst.Fatalf("ReadAll %d failed: %v", i, err)
				}

				if string(got) != fixtureContent {
					tst.Errorf("Expected %q, got %q", fixtureContent, got)
				}
			}
		})
	}
}

// TestAllFetchers_Head verifies metadata reporting across all fetcher implementations.
func TestAllFetchers_Head(t *testing.T) {
	factories := GetTestFetcherFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := context.Background()

			fetcher, u, err := factory(tst)
			if err != nil {
				tst.Fatalf("Fetcher init failed: %v", err)
			}

			stat, err := fetcher.Head(ctx, u)
			if err != nil {
				tst.Fatalf("Head failed: %v", err)
			}

			if stat.Size != int64(len(fixtureContent)) {
				tst.Errorf("Expected size %d, got %d", len(fixtureContent), stat.Size)
			}

			if stat.ContentType != data.ContentTypeJavaSource {
				tst.Errorf("Expected content type %q, got %q", data.ContentTypeJavaSource, stat.ContentType)
			}
		})
	}
}

// TestAllFetchers_NotExist verifies missing resources surface ErrNotExist
// across all fetcher implementations.
func TestAllFetchers_NotExist(t *testing.T) {
	factories := GetTestFetcherFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := context.Background()

			fetcher, u, err := factory(tst)
			if err != nil {
				tst.Fatalf("Fetcher init failed: %v", err)
			}

			missing := *u
			missing.Path = "/fixtures/Missing.java"

			if _, err := fetcher.Fetch(ctx, &missing); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist on Fetch, got %v", err)
			}

			if _, err := fetcher.Head(ctx, &missing); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist on Head, got %v", err)
			}
		})
	}
}

// TestMemoryFetcher_PutRemove verifies overwrite and removal of stored fixtures.
func TestMemoryFetcher_PutRemove(t *testing.T) {
	ctx := context.Background()

	u, err := url.Parse("mem:///fixtures/Foo.java")
	if err != nil {
		t.Fatalf("Failed to parse address: %v", err)
	}

	mf := memory.NewMemoryFetcher("mem")
	first := mf.Put(u, []byte(fixtureContent))

	second := mf.Put(u, []byte("class Foo { int x; }"))
	if second.ETag == first.ETag {
		t.Error("Expected a fresh etag after overwrite")
	}

	reader, err := mf.Fetch(ctx, u)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	got, _ := io.ReadAll(reader)
	reader.Close()

	if string(got) != "class Foo { int x; }" {
		t.Errorf("Expected overwritten content, got %q", got)
	}

	if len(mf.Keys()) != 1 {
		t.Errorf("Expected 1 stored key, got %d", len(mf.Keys()))
	}

	if err := mf.Remove(u); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := mf.Remove(u); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist on double remove, got %v", err)
	}

	if _, err := mf.Fetch(ctx, u); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist after remove, got %v", err)
	}
}

// TestRegistry_Dispatch verifies scheme dispatch, duplicate registration and
// the repeatable bound source view.
func TestRegistry_Dispatch(t *testing.T) {
	ctx := context.Background()
	registry := fetch.NewRegistry(nil)

	u, err := url.Parse("mem:///fixtures/Foo.java")
	if err != nil {
		t.Fatalf("Failed to parse address: %v", err)
	}

	mf := memory.NewMemoryFetcher("mem")
	mf.Put(u, []byte(fixtureContent))

	if err := registry.Register(mf); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := registry.Register(memory.NewMemoryFetcher("mem")); !errors.Is(err, data.ErrExist) {
		t.Errorf("Expected ErrExist on duplicate register, got %v", err)
	}

	if err := registry.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer registry.Close(ctx)

	reader, err := registry.Fetch(ctx, u)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	got, _ := io.ReadAll(reader)
	reader.Close()

	if string(got) != fixtureContent {
		t.Errorf("Expected %q, got %q", fixtureContent, got)
	}

	// Unknown scheme
	unknown, _ := url.Parse("gopher://fixtures/Foo.java")
	if _, err := registry.Fetch(ctx, unknown); !errors.Is(err, data.ErrSchemeUnsupported) {
		t.Errorf("Expected ErrSchemeUnsupported, got %v", err)
	}

	// Bound source opens independent streams
	source := registry.Source(u)
	for i := 0; i < 2; i++ {
		reader, err := source.Open(ctx)
		if err != nil {
			t.Fatalf("Source open %d failed: %v", i, err)
		}

		got, _ := io.ReadAll(reader)
		reader.Close()

		if string(got) != fixtureContent {
			t.Errorf("Expected %q, got %q", fixtureContent, got)
		}
	}
}

// buildFixtureArchive assembles a small zip archive used by the jar tests.
func buildFixtureArchive(t *testing.T) []byte {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)

	entries := map[string]string{
		"com/example/Bar.class": "cafebabe",
		"docs/index.html":       "<html></html>",
	}
	for name, content := range entries {
		f, err := writer.Create(name)
		if err != nil {
			t.Fatalf("Failed to create archive entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write archive entry %s: %v", name, err)
		}
	}

	if _, err := writer.Create("com/empty/"); err != nil {
		t.Fatalf("Failed to create directory entry: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to finish archive: %v", err)
	}

	return buffer.Bytes()
}

// newArchiveRegistry returns a registry serving a fixture archive at
// mem:///libs/fixture.jar with the jar fetcher wired on top.
func newArchiveRegistry(t *testing.T) *fetch.Registry {
	registry := fetch.NewRegistry(nil)

	archiveURL, err := url.Parse("mem:///libs/fixture.jar")
	if err != nil {
		t.Fatalf("Failed to parse archive address: %v", err)
	}

	mf := memory.NewMemoryFetcher("mem")
	mf.Put(archiveURL, buildFixtureArchive(t))

	if err := registry.Register(mf); err != nil {
		t.Fatalf("Register memory fetcher failed: %v", err)
	}
	if err := registry.Register(jar.NewJarFetcher(registry)); err != nil {
		t.Fatalf("Register jar fetcher failed: %v", err)
	}

	return registry
}

// TestJarFetcher_Fetch verifies entry extraction through the registry.
func TestJarFetcher_Fetch(t *testing.T) {
	ctx := context.Background()
	registry := newArchiveRegistry(t)

	u, err := url.Parse("jar:mem:///libs/fixture.jar!/com/example/Bar.class")
	if err != nil {
		t.Fatalf("Failed to parse address: %v", err)
	}

	reader, err := registry.Fetch(ctx, u)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if string(got) != "cafebabe" {
		t.Errorf("Expected %q, got %q", "cafebabe", got)
	}
}

// TestJarFetcher_Head verifies entry metadata from the archive directory.
func TestJarFetcher_Head(t *testing.T) {
	ctx := context.Background()
	registry := newArchiveRegistry(t)

	u, err := url.Parse("jar:mem:///libs/fixture.jar!/docs/index.html")
	if err != nil {
		t.Fatalf("Failed to parse address: %v", err)
	}

	stat, err := registry.Head(ctx, u)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}

	if stat.Key != "docs/index.html" {
		t.Errorf("Expected key %q, got %q", "docs/index.html", stat.Key)
	}

	if stat.Size != int64(len("<html></html>")) {
		t.Errorf("Expected size %d, got %d", len("<html></html>"), stat.Size)
	}

	if stat.ContentType != data.ContentTypeTextHTML {
		t.Errorf("Expected content type %q, got %q", data.ContentTypeTextHTML, stat.ContentType)
	}
}

// TestJarFetcher_ErrorCases verifies error mapping for bad archive addresses.
func TestJarFetcher_ErrorCases(t *testing.T) {
	registry := newArchiveRegistry(t)

	tests := map[string]error{
		"jar:mem:///libs/fixture.jar!/com/example/Missing.class": data.ErrNotExist,
		"jar:mem:///libs/fixture.jar!/com/empty/":                data.ErrIsDirectory,
		"jar:mem:///libs/fixture.jar!/com/empty":                 data.ErrIsDirectory,
		"jar:mem:///libs/missing.jar!/com/example/Bar.class":     data.ErrNotExist,
		"jar:mem:///libs/fixture.jar":                            data.ErrMalformedAddress,
	}

	for address, expected := range tests {
		t.Run(address, func(tst *testing.T) {
			u, err := url.Parse(address)
			if err != nil {
				tst.Fatalf("Failed to parse address: %v", err)
			}

			if _, err := registry.Fetch(context.Background(), u); !errors.Is(err, expected) {
				tst.Errorf("Expected %v, got %v", expected, err)
			}
		})
	}
}
