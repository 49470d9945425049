package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/caarlos0/env/v11"
)

// S3Config selects the bucket that receives archives. Credentials fall back
// to the default AWS chain when the access key is empty.
type S3Config struct {
	Bucket          string `env:"BATCHEDIT_ARCHIVE_S3_BUCKET"`
	Region          string `env:"BATCHEDIT_ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"BATCHEDIT_ARCHIVE_S3_ENDPOINT"`
	PathStyle       bool   `env:"BATCHEDIT_ARCHIVE_S3_PATH_STYLE"`
	Prefix          string `env:"BATCHEDIT_ARCHIVE_S3_PREFIX"`
	AccessKeyID     string `env:"BATCHEDIT_ARCHIVE_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"BATCHEDIT_ARCHIVE_S3_SECRET_ACCESS_KEY"`
}

// LoadS3Config reads S3Config from the process environment.
func LoadS3Config() (S3Config, error) {
	var cfg S3Config
	if err := env.Parse(&cfg); err != nil {
		return S3Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// S3Sink uploads archives to an S3 compatible bucket (AWS S3 or MinIO).
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink builds a client for cfg. optFns are applied after the endpoint
// settings.
func NewS3Sink(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	return &S3Sink{
		client: s3.NewFromConfig(awsCfg, opts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Put uploads data under prefix/key.
func (s *S3Sink) Put(ctx context.Context, key string, data []byte) error {
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
