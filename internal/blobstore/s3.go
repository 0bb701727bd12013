package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client S3API
	bucket string
	prefix string
	region string
	// baseURL overrides the virtual-hosted AWS URL, e.g. a CDN or MinIO endpoint
	baseURL string
}

func NewS3Store(ctx context.Context, cfg models.S3Config, publicBaseURL string) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ierr.NewError("s3 bucket is not configured").Mark(ierr.ErrStorage)
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, ierr.WithError(fmt.Errorf("unable to load SDK config: %w", err)).Mark(ierr.ErrStorage)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := publicBaseURL
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = ""
	}
	if baseURL == "" && cfg.Endpoint != "" {
		baseURL = joinURL(cfg.Endpoint, cfg.Bucket)
	}
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Prefix, cfg.Region, baseURL), nil
}

func NewS3StoreWithClient(client S3API, bucket, prefix, region, baseURL string) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		region:  region,
		baseURL: baseURL,
	}
}

func (s *S3Store) key(name string) string {
	return s.prefix + strings.TrimPrefix(name, "/")
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ierr.NewErrorf("object %s already exists", name).
			WithHint("A report with this file name already exists").
			Mark(ierr.ErrAlreadyExists)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(name)),
	})
	if err != nil {
		return "", ierr.WithError(fmt.Errorf("unable to upload file to S3: %w", err)).Mark(ierr.ErrStorage)
	}
	return s.URLFor(name), nil
}

func (s *S3Store) URLFor(name string) string {
	if s.baseURL != "" {
		return joinURL(s.baseURL, s.key(name))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, s.key(name))
}

func (s *S3Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, ierr.WithError(err).Mark(ierr.ErrStorage)
}

func (s *S3Store) Open(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ierr.NewErrorf("object %s not found", name).Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	return nil
}
