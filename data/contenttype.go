package data

import (
	"path"
	"strings"
)

type ContentType string

const (
	ContentTypeJavaSource        = "text/x-java-source"
	ContentTypeJavaClass         = "application/x-java-class"
	ContentTypeJavaArchive       = "application/java-archive"
	ContentTypeTextPlain         = "text/plain"
	ContentTypeTextHTML          = "text/html"
	ContentTypeApplicationZip    = "application/zip"
	ContentTypeApplicationJson   = "application/json"
	ContentTypeApplicationStream = "application/octet-stream"
)

// KindToMIME maps content kinds to their MIME types
var KindToMIME = map[Kind]ContentType{
	KindSource: ContentTypeJavaSource,
	KindClass:  ContentTypeJavaClass,
	KindHTML:   ContentTypeTextHTML,
	KindOther:  ContentTypeApplicationStream,
}

// ExtensionToMIME maps file extensions outside the kind table to MIME types
var ExtensionToMIME = map[string]ContentType{
	".jar":  ContentTypeJavaArchive,
	".txt":  ContentTypeTextPlain,
	".zip":  ContentTypeApplicationZip,
	".json": ContentTypeApplicationJson,
}

// GetMIMEType returns the MIME type for a locator path.
// Registered kinds take precedence over the extension table.
func GetMIMEType(p string) ContentType {
	if kind := DeduceKind(p); kind != KindOther {
		return KindToMIME[kind]
	}

	ext := strings.ToLower(path.Ext(p))
	if mimeType, exists := ExtensionToMIME[ext]; exists {
		return mimeType
	}

	// Default to octet-stream for unknown types
	return ContentTypeApplicationStream
}

// GetContentType returns the MIME type registered for a kind.
func GetContentType(kind Kind) ContentType {
	if mimeType, exists := KindToMIME[kind]; exists {
		return mimeType
	}

	return ContentTypeApplicationStream
}
