package backup

import (
	"context"
	"io"
	"log"

	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio keeps originals in a MinIO bucket.
type Minio struct {
	client     minioClient
	bucketName string
}

// compile-time check: *Minio must satisfy port.BackupStore
var _ port.BackupStore = (*Minio)(nil)

func NewMinio(ctx context.Context, endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*Minio, error) {
	log.Println("initialising minio backup client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return withBucket(ctx, client, bucket)
}

func withBucket(ctx context.Context, client minioClient, bucket string) (*Minio, error) {
	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		log.Printf("bucket %q does not exist, creating it...", bucket)
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}
	return &Minio{client: client, bucketName: bucket}, nil
}

func (m *Minio) Save(ctx context.Context, relPath string, r io.Reader, size int64) error {
	_, err := m.client.StatObject(ctx, m.bucketName, relPath, minio.StatObjectOptions{})
	if err == nil {
		log.Printf("backup %q already in bucket %q, keeping it", relPath, m.bucketName)
		return nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return mapMinioErr(err)
	}

	log.Printf("saving original %q into bucket %q...", relPath, m.bucketName)
	_, err = m.client.PutObject(ctx, m.bucketName, relPath, r, size, minio.PutObjectOptions{})
	return mapMinioErr(err)
}
