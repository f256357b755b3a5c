package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
)

// S3Config holds the blob-store sink configuration.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Base URL uploads are served from
}

// LoadS3Config loads the S3 sink configuration from environment variables.
func LoadS3Config() (*S3Config, error) {
	cfg := &S3Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
	}

	if cfg.AccessKeyID == "" {
		return nil, errors.New("S3_ACCESS_KEY_ID is required when the S3 upload driver is selected")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the S3 upload driver is selected")
	}
	if cfg.BucketName == "" {
		return nil, errors.New("S3_BUCKET_NAME is required when the S3 upload driver is selected")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("S3_PUBLIC_BASE_URL is required when the S3 upload driver is selected")
	}

	return cfg, nil
}

// ObjectKey generates the bucket key for an uploaded file.
// Format: articles/YYYY/MM/<filename>
func (c *S3Config) ObjectKey(filename string, now time.Time) string {
	return fmt.Sprintf("articles/%04d/%02d/%s", now.Year(), int(now.Month()), filename)
}

// s3Sink uploads image files to an S3-compatible blob store and returns
// their public URL.
type s3Sink struct {
	client *s3.Client
	config *S3Config
}

// NewS3Sink creates a blob-store upload sink.
func NewS3Sink(cfg *S3Config) (Sink, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services (B2, MinIO) need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[Upload] Initialized S3 sink for bucket: %s", cfg.BucketName)
	return &s3Sink{client: client, config: cfg}, nil
}

func (s *s3Sink) Store(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := s.config.ObjectKey(filename, time.Now().UTC())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.BucketName),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}

	publicURL := strings.TrimRight(s.config.PublicBaseURL, "/") + "/" + key
	log.Infof("[Upload] File stored in S3: %s", publicURL)
	return publicURL, nil
}
