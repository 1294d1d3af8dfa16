package catalog_test

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/mwantia/fileobj/catalog"
	"github.com/mwantia/fileobj/catalog/memory"
	"github.com/mwantia/fileobj/catalog/sqlite"
	"github.com/mwantia/fileobj/data"
)

// TestCatalogFactory creates a new catalog instance for testing.
type TestCatalogFactory func(t *testing.T) (catalog.Catalog, error)

// GetTestCatalogFactories returns all catalog implementations to test.
func GetTestCatalogFactories() map[string]TestCatalogFactory {
	return map[string]TestCatalogFactory{
		"memory": func(t *testing.T) (catalog.Catalog, error) {
			return memory.NewMemoryCatalog("fixtures"), nil
		},
		"sqlite": func(t *testing.T) (catalog.Catalog, error) {
			return sqlite.NewSQLiteCatalog("fixtures", ":memory:")
		},
	}
}

// TestAllCatalogs_PutGet verifies store, retrieve and replace operations
// across all catalog implementations.
func TestAllCatalogs_PutGet(t *testing.T) {
	factories := GetTestCatalogFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := context.Background()

			cat, err := factory(tst)
			if err != nil {
				tst.Fatalf("Catalog init failed: %v", err)
			}

			if err := cat.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer cat.Close(ctx)

			content := []byte("class Foo {}")
			stat, err := cat.Put(ctx, "com/example/Foo.java", content)
			if err != nil {
				tst.Fatalf("Put failed: %v", err)
			}

			if stat.Size != int64(len(content)) {
				tst.Errorf("Expected size %d, got %d", len(content), stat.Size)
			}
			if stat.ContentType != data.ContentTypeJavaSource {
				tst.Errorf("Expected content type %q, got %q", data.ContentTypeJavaSource, stat.ContentType)
			}
			if stat.ETag == "" {
				tst.Error("Expected a non-empty etag")
			}

			reader, err := cat.Get(ctx, "com/example/Foo.java")
			if err != nil {
				tst.Fatalf("Get failed: %v", err)
			}

			got, _ := io.ReadAll(reader)
			reader.Close()

			if string(got) != string(content) {
				tst.Errorf("Expected %q, got %q", content, got)
			}

			// Replace and verify the new version wins
			replacement := []byte("class Foo { int x; }")
			replaced, err := cat.Put(ctx, "com/example/Foo.java", replacement)
			if err != nil {
				tst.Fatalf("Replace failed: %v", err)
			}

			if replaced.ETag == stat.ETag {
				tst.Error("Expected a fresh etag after replace")
			}

			reader, err = cat.Get(ctx, "com/example/Foo.java")
			if err != nil {
				tst.Fatalf("Get after replace failed: %v", err)
			}

			got, _ = io.ReadAll(reader)
			reader.Close()

			if string(got) != string(replacement) {
				tst.Errorf("Expected %q, got %q", replacement, got)
			}
		})
	}
}

// TestAllCatalogs_StatList verifies metadata reporting and ordered listing
// across all catalog implementations.
func TestAllCatalogs_StatList(t *testing.T) {
	factories := GetTestCatalogFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := context.Background()

			cat, err := factory(tst)
			if err != nil {
				tst.Fatalf("Catalog init failed: %v", err)
			}

			if err := cat.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer cat.Close(ctx)

			keys := []string{
				"com/example/Baz.java",
				"com/example/Bar.java",
				"org/other/Qux.java",
			}
			for _, key := range keys {
				if _, err := cat.Put(ctx, key, []byte("class X {}")); err != nil {
					tst.Fatalf("Put %s failed: %v", key, err)
				}
			}

			stat, err := cat.Stat(ctx, "com/example/Bar.java")
			if err != nil {
				tst.Fatalf("Stat failed: %v", err)
			}
			if stat.Key != "com/example/Bar.java" {
				tst.Errorf("Expected key %q, got %q", "com/example/Bar.java", stat.Key)
			}

			stats, err := cat.List(ctx, "com/example/")
			if err != nil {
				tst.Fatalf("List failed: %v", err)
			}

			if len(stats) != 2 {
				tst.Fatalf("Expected 2 entries, got %d", len(stats))
			}

			// Listings come back in lexical key order
			if stats[0].Key != "com/example/Bar.java" || stats[1].Key != "com/example/Baz.java" {
				tst.Errorf("Unexpected listing order: %q, %q", stats[0].Key, stats[1].Key)
			}
		})
	}
}

// TestAllCatalogs_Delete verifies removal semantics across all catalog implementations.
func TestAllCatalogs_Delete(t *testing.T) {
	factories := GetTestCatalogFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := context.Background()

			cat, err := factory(tst)
			if err != nil {
				tst.Fatalf("Catalog init failed: %v", err)
			}

			if err := cat.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer cat.Close(ctx)

			if _, err := cat.Put(ctx, "com/example/Foo.java", []byte("class Foo {}")); err != nil {
				tst.Fatalf("Put failed: %v", err)
			}

			if err := cat.Delete(ctx, "com/example/Foo.java"); err != nil {
				tst.Fatalf("Delete failed: %v", err)
			}

			if _, err := cat.Stat(ctx, "com/example/Foo.java"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist after delete, got %v", err)
			}

			if err := cat.Delete(ctx, "com/example/Foo.java"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist on double delete, got %v", err)
			}
		})
	}
}

// TestCatalogFetcher_Dispatch verifies catalog address demultiplexing.
func TestCatalogFetcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	cat := memory.NewMemoryCatalog("fixtures")
	if _, err := cat.Put(ctx, "com/example/Foo.java", []byte("class Foo {}")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	fetcher := catalog.NewFetcher(cat)

	u, err := url.Parse("catalog://fixtures/com/example/Foo.java")
	if err != nil {
		t.Fatalf("Failed to parse address: %v", err)
	}

	reader, err := fetcher.Fetch(ctx, u)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	got, _ := io.ReadAll(reader)
	reader.Close()

	if string(got) != "class Foo {}" {
		t.Errorf("Expected %q, got %q", "class Foo {}", got)
	}

	stat, err := fetcher.Head(ctx, u)
	if err != nil {
		t.Fatalf("Head failed: %v", err)
	}
	if stat.Key != "com/example/Foo.java" {
		t.Errorf("Expected key %q, got %q", "com/example/Foo.java", stat.Key)
	}

	// Unknown catalog name
	unknown, _ := url.Parse("catalog://other/com/example/Foo.java")
	if _, err := fetcher.Fetch(ctx, unknown); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist for unknown catalog, got %v", err)
	}

	// Address without a key
	empty, _ := url.Parse("catalog://fixtures")
	if _, err := fetcher.Fetch(ctx, empty); !errors.Is(err, data.ErrMalformedAddress) {
		t.Errorf("Expected ErrMalformedAddress, got %v", err)
	}
}

// TestCatalogRoot_Resolve verifies catalogs participate in name resolution.
func TestCatalogRoot_Resolve(t *testing.T) {
	ctx := context.Background()

	cat := memory.NewMemoryCatalog("fixtures")
	if _, err := cat.Put(ctx, "com/example/Foo.java", []byte("class Foo {}")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	root := catalog.NewRoot(cat)

	u, err := root.Resolve(ctx, "com/example/Foo.java")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if u.String() != "catalog://fixtures/com/example/Foo.java" {
		t.Errorf("Expected %q, got %q", "catalog://fixtures/com/example/Foo.java", u)
	}

	if _, err := root.Resolve(ctx, "com/example/Missing.java"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

// TestSQLiteCatalog_Persistence verifies content survives catalog restarts.
func TestSQLiteCatalog_Persistence(t *testing.T) {
	ctx := context.Background()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "catalog.db")

	// First instance - store content
	first, err := sqlite.NewSQLiteCatalog("fixtures", dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteCatalog failed: %v", err)
	}

	if err := first.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	content := []byte("class Foo {}")
	if _, err := first.Put(ctx, "com/example/Foo.java", content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Second instance - verify content persisted
	second, err := sqlite.NewSQLiteCatalog("fixtures", dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteCatalog (second) failed: %v", err)
	}
	defer second.Close(ctx)

	if err := second.Open(ctx); err != nil {
		t.Fatalf("Open (second) failed: %v", err)
	}

	reader, err := second.Get(ctx, "com/example/Foo.java")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if string(got) != string(content) {
		t.Errorf("Expected %q, got %q", content, got)
	}
}
