package data

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// ArchiveScheme marks addresses that point into an archive entry.
	ArchiveScheme = "jar"

	// ArchiveSeparator splits an archive locator from its entry path.
	ArchiveSeparator = "!"
)

// SplitArchiveAddress splits the scheme specific part of an archive address
// into the archive locator and the in-archive entry path.
// The separator must occur exactly once and the entry path must not denote
// a directory.
func SplitArchiveAddress(u *url.URL) (string, string, error) {
	parts := strings.Split(SchemeSpecific(u), ArchiveSeparator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: separator '%s' must appear exactly once in '%s'",
			ErrMalformedAddress, ArchiveSeparator, u)
	}

	if strings.HasSuffix(parts[1], "/") {
		return "", "", fmt.Errorf("%w: archive entry '%s' in '%s' denotes a directory",
			ErrIsDirectory, parts[1], u)
	}

	return parts[0], parts[1], nil
}

// SchemeSpecific returns the address text after the scheme marker.
// Opaque addresses keep their embedded sub-address untouched, so nested
// addresses like 'jar:file:/lib.jar!/entry' survive the round trip.
func SchemeSpecific(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}

	return strings.TrimPrefix(u.String(), u.Scheme+":")
}
