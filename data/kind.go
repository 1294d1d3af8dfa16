package data

import "strings"

// Kind classifies the content of a file object.
// The consuming toolchain uses it to decide how a file object is processed.
type Kind int

const (
	// KindSource marks Java source text.
	KindSource Kind = iota + 1
	// KindClass marks compiled class files.
	KindClass
	// KindHTML marks HTML documentation resources.
	KindHTML
	// KindOther marks content without a registered extension.
	KindOther
)

// Extension returns the file extension registered for this kind.
// KindOther carries no extension and returns an empty string.
func (k Kind) Extension() string {
	switch k {
	case KindSource:
		return ".java"
	case KindClass:
		return ".class"
	case KindHTML:
		return ".html"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindClass:
		return "class"
	case KindHTML:
		return "html"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Kinds returns all registered kinds in deduction order.
// DeduceKind checks extensions in exactly this order.
func Kinds() []Kind {
	return []Kind{KindSource, KindClass, KindHTML, KindOther}
}

// DeduceKind determines the content kind for a locator path by checking
// each registered kind's extension as a suffix, in enumeration order.
// Locators matching no registered extension map to KindOther.
// The lookup is pure and performs no I/O.
func DeduceKind(path string) Kind {
	for _, kind := range Kinds() {
		ext := kind.Extension()
		if ext == "" {
			continue
		}

		if strings.HasSuffix(path, ext) {
			return kind
		}
	}

	return KindOther
}
