// Package loader turns a model configuration into decoded, normalized
// survey geometry: it fetches file text, runs the format decoders
// through a path-keyed repository, detects attribute families, and
// rewrites positions into the common unit frame.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/geoscope/pkg/encoding"
)

// ErrFetch wraps any failure to obtain survey file text: missing file,
// permission problem, transport failure. Recoverable per file.
var ErrFetch = errors.New("fetching survey file")

// Fetcher obtains raw survey file text by path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// DirFetcher reads survey files from a directory tree.
type DirFetcher struct {
	Root string
}

// Fetch reads the file at Root/path and returns its text as UTF-8.
func (d DirFetcher) Fetch(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := filepath.Join(d.Root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrFetch, path, err)
	}
	return encoding.DecodeText(data), nil
}
