package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores file bytes on the local filesystem under Dir and returns
// locators under BaseURL (served by the HTTP layer as a static route).
type Local struct {
	Dir     string
	BaseURL string
}

// NewLocal ensures the target directory exists and is writable.
// A directory that cannot be created is a configuration problem, not a
// write failure.
func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		return nil, ErrUnavailable
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ErrUnavailable
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	dst := filepath.Join(l.Dir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", &WriteError{Err: err}
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", &WriteError{Err: err}
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", &WriteError{Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &WriteError{Err: err}
	}
	return l.BaseURL + "/" + objectPath, nil
}

var _ Storage = (*Local)(nil)
