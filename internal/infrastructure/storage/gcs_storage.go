package storage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

// GCSStorage stores report media in one Google Cloud Storage bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSStorage(client *storage.Client, bucket string) *GCSStorage {
	return &GCSStorage{client: client, bucket: bucket}
}

func (s *GCSStorage) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
}

// ObjectPath returns the object behind a public url of this bucket.
func (s *GCSStorage) ObjectPath(url string) (string, bool) {
	return helpers.ObjectPathFromURL(s.bucket, url)
}

func (s *GCSStorage) Delete(ctx context.Context, objectPath string) error {
	return helpers.DeleteObject(ctx, s.client, s.bucket, objectPath)
}
