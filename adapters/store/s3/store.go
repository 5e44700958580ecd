// Package stores3 uploads generated documents to S3 compatible object
// storage such as MinIO and hands back presigned download URLs.
package stores3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/goliatone/go-docgen/docgen"
)

const (
	DefaultRegion     = "us-east-1"
	DefaultEndpoint   = "localhost:9000"
	DefaultPresignTTL = 7 * 24 * time.Hour
)

// Config holds connection settings.
type Config struct {
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PathStyle  bool
	PresignTTL time.Duration
}

// Store uploads documents and returns presigned GET URLs.
type Store struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucket     string
	presignTTL time.Duration
	logger     docgen.Logger
}

var _ docgen.ObjectStorage = (*Store)(nil)

// New creates a store. It does not contact the server; call EnsureBucket at
// startup for that.
func New(ctx context.Context, cfg Config, logger docgen.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, docgen.NewValidationError("object storage bucket is required", "bucket")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, docgen.NewValidationError("object storage credentials are required", "access_key", "secret_key")
	}
	if logger == nil {
		logger = docgen.NopLogger{}
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, docgen.NewError(docgen.KindInternal, "load object storage config", err)
	}
	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Store{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
		logger:     logger,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return docgen.NewError(docgen.KindUpstream, fmt.Sprintf("check bucket %q", s.bucket), err)
	}

	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return docgen.NewError(docgen.KindUpstream, fmt.Sprintf("create bucket %q", s.bucket), err)
	}
	s.logger.Infof("created bucket %s", s.bucket)
	return nil
}

// Put uploads data under key and returns a presigned download URL.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", docgen.NewError(docgen.KindValidation, "object key is required", nil)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}); err != nil {
		return "", docgen.NewError(docgen.KindUpstream, fmt.Sprintf("upload %s", key), err)
	}
	return s.URL(ctx, key)
}

// URL presigns a GET request for key.
func (s *Store) URL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", docgen.NewError(docgen.KindInternal, fmt.Sprintf("presign %s", key), err)
	}
	return req.URL, nil
}

func endpointURL(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/")
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
