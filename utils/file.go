package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SpoolToTempFile writes r to a temporary file and returns its path with a
// cleanup func. The pdftotext/pdfinfo tools need a real file path, so
// blob-store bytes are spooled here for the duration of one ingestion.
func SpoolToTempFile(r io.Reader, name string) (string, func(), error) {
	f, err := os.CreateTemp("", "ragdocs-*-"+SanitizeFileName(name))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		os.Remove(f.Name())
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to spool file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}

// SanitizeFileName keeps only characters that are safe in a file name.
func SanitizeFileName(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, base)
}
