package helpers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com/"

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadObject uploads bytes from r into bucket/objectPath with the provided contentType
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// DeleteObject removes bucket/objectPath. A missing object is not an error.
func DeleteObject(ctx context.Context, client *storage.Client, bucket, objectPath string) error {
	err := client.Bucket(bucket).Object(objectPath).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s%s/%s", gcsPublicHost, bucket, objectPath)
}

// ObjectPathFromURL is the inverse of PublicURL. ok is false for URLs outside bucket.
func ObjectPathFromURL(bucket, url string) (string, bool) {
	prefix := gcsPublicHost + bucket + "/"
	if bucket == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	p := strings.TrimPrefix(url, prefix)
	return p, p != ""
}
