package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
)

// BlobStore adapts an S3Client to the staging engine's attachment
// collaborator: one bucket, keys derived from the path hint, presigned
// URLs recorded on the row.
type BlobStore struct {
	client   S3Client
	bucket   string
	urlTTL   time.Duration
	basePath string
}

func NewBlobStore(client S3Client, bucket string) *BlobStore {
	return &BlobStore{
		client:   client,
		bucket:   bucket,
		urlTTL:   7 * 24 * time.Hour,
		basePath: "attachments",
	}
}

// Upload stores the bytes and returns the URL to record on the row.
func (b *BlobStore) Upload(ctx context.Context, data []byte, contentType, pathHint string) (string, error) {
	key := b.key(pathHint)
	if err := b.client.Upload(ctx, b.bucket, key, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}
	url, err := b.client.GetPresignedURL(ctx, b.bucket, key, b.urlTTL)
	if err != nil {
		return "", fmt.Errorf("uploaded but failed to produce URL for %s: %w", key, err)
	}
	return url, nil
}

func (b *BlobStore) key(pathHint string) string {
	hint := strings.TrimLeft(strings.ReplaceAll(pathHint, "..", ""), "/")
	return b.basePath + "/" + hint
}
