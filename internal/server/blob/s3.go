package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/recordvault/recordvault/internal/common"
)

// loadDefaultAWSConfig is a seam for testing client construction.
var loadDefaultAWSConfig = config.LoadDefaultConfig

// s3API is the subset of the S3 client the store uses; tests substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options carries the settings needed to reach an S3-compatible backend
// (AWS or MinIO with a custom base endpoint).
type S3Options struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store implements Store over an S3-compatible object storage.
type S3Store struct {
	api    s3API
	bucket string
}

// NewS3Store builds a client from static credentials and the configured
// endpoint, the same way the rest of the infrastructure reaches MinIO.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.User,
			opts.Password,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{api: client, bucket: opts.Bucket}, nil
}

// randomStoredName generates a date-bucketed opaque key for a new object.
func randomStoredName() string {
	d := time.Now()
	return fmt.Sprintf("records/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Store) Put(ctx context.Context, payload io.Reader) (string, error) {
	key := randomStoredName()
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   payload,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put error: %w", err)
	}
	return key, nil
}

func (s *S3Store) Get(ctx context.Context, storedName string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &storedName,
	})
	if err != nil {
		if isMissingObject(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("s3 get error: %w", err)
	}
	return out.Body, nil
}

// Delete checks existence first: S3 DeleteObject succeeds for absent keys,
// but callers want to know whether anything was actually removed.
func (s *S3Store) Delete(ctx context.Context, storedName string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &storedName,
	})
	if err != nil {
		if isMissingObject(err) {
			return false, nil
		}
		return false, fmt.Errorf("s3 head error: %w", err)
	}

	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &storedName,
	}); err != nil {
		return false, fmt.Errorf("s3 delete error: %w", err)
	}
	return true, nil
}

func isMissingObject(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
