package blob

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores file bytes in a Google Cloud Storage bucket and returns the
// object's public URL as the locator.
type GCS struct {
	Client *storage.Client
	Bucket string
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is
// empty, Application Default Credentials are used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// NewGCS wires a client and bucket into a Storage. A nil client or empty
// bucket is an incomplete configuration.
func NewGCS(client *storage.Client, bucket string) (*GCS, error) {
	if client == nil || bucket == "" {
		return nil, ErrUnavailable
	}
	return &GCS{Client: client, Bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	wc := g.Client.Bucket(g.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", &WriteError{Err: err}
	}
	if err := wc.Close(); err != nil {
		return "", &WriteError{Err: err}
	}
	return PublicURL(g.Bucket, objectPath), nil
}

// PublicURL builds a public URL for an object (assuming public read
// access or signed URLs).
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

var _ Storage = (*GCS)(nil)
