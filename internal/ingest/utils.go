package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/menu-extractor/constants"
)

// AllowedExt checks if a file extension is in the allowed set.
func AllowedExt(path string) bool {
	return constants.AllowedExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// ReadMenuFile reads a text file, refusing anything larger than maxBytes.
func ReadMenuFile(path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxUploadBytes
	}
	b, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(b)) > maxBytes {
		return "", fmt.Errorf("%s exceeds %d bytes", path, maxBytes)
	}
	return string(b), nil
}
