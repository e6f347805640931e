package testutil

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

type TestBucket struct {
	Client  *minio.Client
	Name    string
	Cleanup func() error
}

// SetupTestBucket recreates bucket empty. The backup store creates missing
// buckets itself, so callers may also drop it before use.
func SetupTestBucket(client *minio.Client, bucket string) (*TestBucket, error) {
	ctx := context.Background()

	removeAll := func() error {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil || !exists {
			return err
		}
		for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, bucket); err != nil {
			return fmt.Errorf("could not remove bucket %q: %w", bucket, err)
		}
		return nil
	}

	if err := removeAll(); err != nil {
		return nil, err
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return nil, fmt.Errorf("could not create bucket %q: %w", bucket, err)
	}

	return &TestBucket{Client: client, Name: bucket, Cleanup: removeAll}, nil
}

// ObjectExists reports whether key is stored in the bucket.
func (b *TestBucket) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := b.Client.StatObject(ctx, b.Name, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}
