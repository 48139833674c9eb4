package helpers

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStorage is the put/delete surface the media store needs from a bucket backend.
type ObjectStorage interface {
	PutObject(ctx context.Context, bucket, key, contentType string, r io.Reader) error
	DeleteObject(ctx context.Context, bucket, key string) error
}

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSStorage adapts a GCS client to ObjectStorage.
type GCSStorage struct {
	Client *storage.Client
}

func NewGCSStorage(client *storage.Client) *GCSStorage {
	return &GCSStorage{Client: client}
}

// PutObject uploads bytes from r into bucket/key with the provided contentType
func (g *GCSStorage) PutObject(ctx context.Context, bucket, key, contentType string, r io.Reader) error {
	wc := g.Client.Bucket(bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// DeleteObject removes bucket/key; a missing object is not an error.
func (g *GCSStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	err := g.Client.Bucket(bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCSStorage) Close() error {
	return g.Client.Close()
}
