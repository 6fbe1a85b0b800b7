package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Store is the production artifact store, backed by an S3 bucket.
//
// The client is constructed once at process start (NewS3Client) and
// injected here; the store itself holds no hidden connection state.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Client loads the default AWS credential chain and returns a client
// for the given region. Call once and share across stores.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// NewS3Store returns a store for the bucket using the injected client.
func NewS3Store(client *s3.Client, bucket string) (*S3Store, error) {
	if client == nil {
		return nil, fmt.Errorf("artifact: s3 client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("artifact: bucket name is required")
	}
	return &S3Store{client: client, bucket: bucket}, nil
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	if isAccessDenied(err) {
		return false, fmt.Errorf("%w: %s", ErrPermission, key)
	}
	return false, &StorageError{Op: "exists", Key: key, Err: err}
}

func (s *S3Store) GetBytes(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		if isAccessDenied(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermission, key)
		}
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &StorageError{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

func (s *S3Store) PutBytes(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		if isAccessDenied(err) {
			return fmt.Errorf("%w: %s", ErrPermission, key)
		}
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s *S3Store) Stat(ctx context.Context, key string) (Info, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return Info{}, ErrNotFound
		}
		if isAccessDenied(err) {
			return Info{}, fmt.Errorf("%w: %s", ErrPermission, key)
		}
		return Info{}, &StorageError{Op: "stat", Key: key, Err: err}
	}
	return Info{
		Key:     key,
		Size:    aws.ToInt64(out.ContentLength),
		Version: strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

// PutBytesIf implements ConditionalStore via S3 conditional writes.
// A non-empty version becomes an If-Match on the slot's current ETag;
// an empty version requires the key to not exist yet (If-None-Match: *).
func (s *S3Store) PutBytesIf(ctx context.Context, key string, data []byte, version string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if version == "" {
		in.IfNoneMatch = aws.String("*")
	} else {
		in.IfMatch = aws.String(`"` + version + `"`)
	}
	_, err := s.client.PutObject(ctx, in)
	if err != nil {
		if isPreconditionFailed(err) {
			return ErrPrecondition
		}
		if isAccessDenied(err) {
			return fmt.Errorf("%w: %s", ErrPermission, key)
		}
		return &StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound"
}

func isAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return true
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
