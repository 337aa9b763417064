package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for menu extraction.
var AllowedExtensions = map[string]struct{}{
	"txt": {},
}

// DefaultMaxUploadBytes caps a single uploaded menu file (10 MiB).
const DefaultMaxUploadBytes int64 = 10 << 20

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt reports whether ext (with or without the leading dot) is accepted.
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
