package data

import "testing"

func TestDeduceKind(t *testing.T) {
	tests := map[string]Kind{
		"com/example/Foo.java":     KindSource,
		"com/example/Foo.class":    KindClass,
		"docs/index.html":          KindHTML,
		"META-INF/services/Proc":   KindOther,
		"com/example/Foo.java.txt": KindOther,
		"/lib.jar!/com/A.class":    KindClass,
		"resources/template.java":  KindSource,
	}

	for path, expected := range tests {
		t.Run(path, func(t *testing.T) {
			if kind := DeduceKind(path); kind != expected {
				t.Errorf("DeduceKind(%q) = %v, expected %v", path, kind, expected)
			}
		})
	}

	// Extension matching is case sensitive and an empty locator has no kind.
	if kind := DeduceKind("Foo.JAVA"); kind != KindOther {
		t.Errorf("DeduceKind(%q) = %v, expected %v", "Foo.JAVA", kind, KindOther)
	}
	if kind := DeduceKind(""); kind != KindOther {
		t.Errorf("DeduceKind(%q) = %v, expected %v", "", kind, KindOther)
	}
}

func TestKindExtensions(t *testing.T) {
	tests := map[Kind]string{
		KindSource: ".java",
		KindClass:  ".class",
		KindHTML:   ".html",
		KindOther:  "",
	}

	for kind, expected := range tests {
		if ext := kind.Extension(); ext != expected {
			t.Errorf("Extension for %v = %q, expected %q", kind, ext, expected)
		}
	}
}

func TestKindsOrder(t *testing.T) {
	kinds := Kinds()
	expected := []Kind{KindSource, KindClass, KindHTML, KindOther}

	if len(kinds) != len(expected) {
		t.Fatalf("Expected %d kinds, got %d", len(expected), len(kinds))
	}

	for i, kind := range expected {
		if kinds[i] != kind {
			t.Errorf("Kinds()[%d] = %v, expected %v", i, kinds[i], kind)
		}
	}
}

func TestGetMIMEType(t *testing.T) {
	tests := map[string]ContentType{
		"com/example/Foo.java":  ContentTypeJavaSource,
		"com/example/Foo.class": ContentTypeJavaClass,
		"docs/index.html":       ContentTypeTextHTML,
		"lib/deps.jar":          ContentTypeJavaArchive,
		"notes.txt":             ContentTypeTextPlain,
		"unknown.bin":           ContentTypeApplicationStream,
	}

	for path, expected := range tests {
		if mimeType := GetMIMEType(path); mimeType != expected {
			t.Errorf("GetMIMEType(%q) = %q, expected %q", path, mimeType, expected)
		}
	}
}
