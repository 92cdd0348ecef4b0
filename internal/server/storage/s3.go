// Package storage signs short-lived object URLs for profile images kept in an
// S3-compatible bucket (MinIO in development).
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Options describes the bucket holding profile images.
type S3Options struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	TTL          time.Duration
}

// S3ImageSigner presigns GET requests for image keys.
type S3ImageSigner struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3ImageSigner builds the presign client once; presigning itself is local
// and makes no network calls.
func NewS3ImageSigner(ctx context.Context, o S3Options) (*S3ImageSigner, error) {
	if o.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(o.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.BaseEndpoint != "" {
			opts.BaseEndpoint = aws.String(o.BaseEndpoint)
			opts.UsePathStyle = true
		}
	})

	ttl := o.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3ImageSigner{presign: s3.NewPresignClient(client), bucket: o.Bucket, ttl: ttl}, nil
}

// PresignGet returns a temporary URL for key.
func (s *S3ImageSigner) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := presignGetObject(s.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
