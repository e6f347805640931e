package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

// S3 keeps originals in an S3 bucket.
type S3 struct {
	head     s3Header
	uploader s3Uploader
	bucket   string
}

// compile-time check: *S3 must satisfy port.BackupStore
var _ port.BackupStore = (*S3)(nil)

func NewS3(region, accessKey, secretKey, bucket string) *S3 {
	opts := s3.Options{Region: region}
	if accessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	}
	client := s3.New(opts)
	return &S3{head: client, uploader: manager.NewUploader(client), bucket: bucket}
}

func (s *S3) Save(ctx context.Context, relPath string, r io.Reader, _ int64) error {
	_, err := s.head.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(relPath),
	})
	if err == nil {
		log.Printf("backup %q already in bucket %q, keeping it", relPath, s.bucket)
		return nil
	}
	var nf *types.NotFound
	if !errors.As(err, &nf) {
		return fmt.Errorf("%w: head %s: %v", ErrInternal, relPath, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(relPath),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("%w: upload %s to bucket %s: %v", ErrInternal, relPath, s.bucket, err)
	}
	log.Printf("uploaded original %q to bucket %q", relPath, s.bucket)
	return nil
}
