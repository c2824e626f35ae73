// Package blob abstracts where uploaded file bytes live. The account
// service only ever sees the Storage interface; which backend is in use
// is decided once, from configuration, at startup.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnavailable means the backend configuration is incomplete
	// (missing bucket, unwritable directory). It is detected before any
	// write is attempted.
	ErrUnavailable = errors.New("blob storage not configured")
)

// WriteError wraps a failure of the write itself, as opposed to a
// configuration problem.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("blob write failed: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Storage stores file bytes and returns an opaque locator (URL or path)
// for them. Implementations stream from r rather than buffering the
// whole payload.
type Storage interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
