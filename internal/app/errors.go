package app

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidWorkspaceName = errors.New("invalid workspace name")
	ErrPageNotFound         = errors.New("page not found")
	ErrUnsupportedFileType  = errors.New("file type not allowed, only .txt, .md and .pdf files are supported")
	ErrNoContent            = errors.New("no content found to analyze")
	ErrTaggingUnavailable   = errors.New("auto-tagging model not available")
	ErrGraphUnavailable     = errors.New("embedding model not available")
)

// SanitizeWorkspaceName reduces a workspace name to alphanumerics, hyphens
// and underscores. A name that is empty after sanitization is invalid.
func SanitizeWorkspaceName(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	safe := b.String()
	if safe == "" {
		return "", ErrInvalidWorkspaceName
	}
	return safe, nil
}
