// Package encoding provides text encoding utilities for survey file formats.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeText returns file content as UTF-8. Legacy GOCAD exports are
// frequently ISO 8859-1; anything that is not already valid UTF-8 is
// transcoded from Latin-1 so property names with accented characters
// survive intact.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoder := charmap.ISO8859_1.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// NormalizePath normalizes a survey file path for cache lookup. Only
// separators are unified; case is preserved, since the backing store
// may be case-sensitive.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
