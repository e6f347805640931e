package backup

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

var (
	ErrInvalidKey     = errors.New("backup key escapes the backup location")
	ErrBucketNotFound = errors.New("backup bucket not found")
	ErrUnauthorized   = errors.New("backup store rejected credentials")
	ErrInternal       = errors.New("backup store failure")
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrUnauthorized
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
