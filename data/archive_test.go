package data

import (
	"errors"
	"net/url"
	"testing"
)

func TestSplitArchiveAddress(t *testing.T) {
	tests := map[string]struct {
		archive string
		entry   string
	}{
		"jar:file:/tmp/lib.jar!/com/example/Bar.class": {
			archive: "file:/tmp/lib.jar",
			entry:   "/com/example/Bar.class",
		},
		"jar:https://example.com/lib.jar!/META-INF/MANIFEST.MF": {
			archive: "https://example.com/lib.jar",
			entry:   "/META-INF/MANIFEST.MF",
		},
		"jar:/lib.jar!/com/example/Bar.class": {
			archive: "/lib.jar",
			entry:   "/com/example/Bar.class",
		},
	}

	for address, expected := range tests {
		t.Run(address, func(t *testing.T) {
			u, err := url.Parse(address)
			if err != nil {
				t.Fatalf("Failed to parse address: %v", err)
			}

			archive, entry, err := SplitArchiveAddress(u)
			if err != nil {
				t.Fatalf("Failed to split address: %v", err)
			}

			if archive != expected.archive {
				t.Errorf("Archive = %q, expected %q", archive, expected.archive)
			}
			if entry != expected.entry {
				t.Errorf("Entry = %q, expected %q", entry, expected.entry)
			}
		})
	}
}

func TestSplitArchiveAddressMalformed(t *testing.T) {
	tests := map[string]error{
		"jar:file:/tmp/lib.jar":                    ErrMalformedAddress,
		"jar:file:/a.jar!/nested.jar!/com/A.class": ErrMalformedAddress,
		"jar:file:/tmp/lib.jar!/com/example/":      ErrIsDirectory,
		"jar:file:/tmp/lib.jar!/":                  ErrIsDirectory,
	}

	for address, expected := range tests {
		t.Run(address, func(t *testing.T) {
			u, err := url.Parse(address)
			if err != nil {
				t.Fatalf("Failed to parse address: %v", err)
			}

			if _, _, err := SplitArchiveAddress(u); !errors.Is(err, expected) {
				t.Errorf("Expected error %v, got %v", expected, err)
			}
		})
	}
}

func TestSchemeSpecific(t *testing.T) {
	tests := map[string]string{
		"jar:file:/tmp/lib.jar!/com/A.class":  "file:/tmp/lib.jar!/com/A.class",
		"jar:/lib.jar!/com/example/Bar.class": "/lib.jar!/com/example/Bar.class",
		"file:///tmp/fixtures/Foo.java":       "///tmp/fixtures/Foo.java",
		"consul://config/fixtures/Foo.java":   "//config/fixtures/Foo.java",
	}

	for address, expected := range tests {
		t.Run(address, func(t *testing.T) {
			u, err := url.Parse(address)
			if err != nil {
				t.Fatalf("Failed to parse address: %v", err)
			}

			if ssp := SchemeSpecific(u); ssp != expected {
				t.Errorf("SchemeSpecific(%q) = %q, expected %q", address, ssp, expected)
			}
		})
	}
}
