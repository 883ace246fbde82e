// Package blob removes uploaded files from S3-compatible object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"trailhead/internal/validation"
)

// ErrEmptyKey is returned when a file URL has no object path.
var ErrEmptyKey = errors.New("file url has no object key")

// Config configures the S3 store.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional custom endpoint
	PathStyle bool
}

// S3 deletes objects referenced by stored file URLs.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 builds an S3 store using the default AWS credential chain.
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3(awsCfg, cfg), nil
}

func newS3(awsCfg aws.Config, cfg Config, optFns ...func(*s3.Options)) *S3 {
	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)...)
	return &S3{client: client, bucket: cfg.Bucket}
}

// Key returns the object key for a stored file URL. Path-style URLs carry
// the bucket as their first segment.
func (s *S3) Key(fileURL string) (string, error) {
	key, err := validation.BlobKey(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}

// Delete removes the object behind fileURL. Missing objects are not an error.
func (s *S3) Delete(ctx context.Context, fileURL string) error {
	key, err := s.Key(fileURL)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
