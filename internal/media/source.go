package media

import (
	"os"
	"strings"
)

// SourceKind is the closed set of source categories used to select a
// download strategy.
type SourceKind int

const (
	// SourceGeneric is a regular streaming host (YouTube and friends).
	SourceGeneric SourceKind = iota
	// SourceRestrictedSocial is a social host known to gate content
	// behind a login (Instagram).
	SourceRestrictedSocial
	// SourceDirectFile is a shared-drive link that resolves to a plain
	// file download (Google Drive).
	SourceDirectFile
)

func (k SourceKind) String() string {
	switch k {
	case SourceRestrictedSocial:
		return "restricted_social"
	case SourceDirectFile:
		return "direct_file"
	default:
		return "generic"
	}
}

// Classification is the result of resolving a source URL. Derived purely
// from URL shape plus a local cookie-file probe; no network I/O.
type Classification struct {
	Kind            SourceKind
	CookieAvailable bool
}

// Classify categorizes a URL and, for restricted social hosts, probes
// whether the configured cookie file exists. Malformed URLs are not
// rejected here; the downloader surfaces resolution failures.
func Classify(url, cookieFile string) Classification {
	switch {
	case strings.Contains(url, "drive.google.com"):
		return Classification{Kind: SourceDirectFile}
	case strings.Contains(url, "instagram.com"):
		return Classification{
			Kind:            SourceRestrictedSocial,
			CookieAvailable: cookieFileExists(cookieFile),
		}
	default:
		return Classification{Kind: SourceGeneric}
	}
}

func cookieFileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
