package media

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
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the S3 API the storage backend uses.
// Declared as an interface so tests can substitute a mock client.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures the S3-compatible backend.
type S3Config struct {
	Bucket      string `env:"MEDIA_S3_BUCKET"`
	Region      string `env:"MEDIA_S3_REGION"`
	AccessKeyID string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	SecretKey   string `env:"MEDIA_S3_SECRET_KEY"`

	// Endpoint overrides the AWS endpoint for S3-compatible providers.
	Endpoint string `env:"MEDIA_S3_ENDPOINT"`

	// BaseURL is the public URL prefix for stored objects. Derived from
	// the bucket and region when empty.
	BaseURL string `env:"MEDIA_S3_BASE_URL"`

	ForcePathStyle bool          `env:"MEDIA_S3_FORCE_PATH_STYLE" envDefault:"false"`
	UploadTimeout  time.Duration `env:"MEDIA_S3_UPLOAD_TIMEOUT" envDefault:"30s"`
}

// S3Storage uploads objects to an S3-compatible bucket.
type S3Storage struct {
	client        S3Client
	bucket        string
	baseURL       string
	uploadTimeout time.Duration
}

// S3Option customizes S3Storage construction.
type S3Option func(*s3Options)

type s3Options struct {
	client S3Client
}

// WithS3Client injects a pre-configured client, bypassing AWS config loading.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) { o.client = client }
}

// NewS3Storage creates an S3 backend from cfg. Credentials fall back to the
// default AWS provider chain when not set explicitly.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		baseURL:       baseURL,
		uploadTimeout: cfg.UploadTimeout,
	}, nil
}

// Save uploads the object and returns its public URL.
func (s *S3Storage) Save(ctx context.Context, r io.Reader, contentType, path string) (string, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	key, err := cleanPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", classifyS3Error(err, "upload")
	}

	return s.baseURL + key, nil
}

// Delete removes the object at path.
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	key, err := cleanPath(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return classifyS3Error(err, "delete")
	}
	return nil
}

// URL returns the public URL for a stored path.
func (s *S3Storage) URL(path string) string {
	return s.baseURL + strings.TrimPrefix(path, "/")
}

// classifyS3Error maps SDK errors onto the package's sentinel errors.
func classifyS3Error(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrOperationTimeout, operation)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrFileNotFound, err)
		case "AccessDenied":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	if operation == "delete" {
		return fmt.Errorf("%w: %v", ErrFailedToDelete, err)
	}
	return fmt.Errorf("%w: %v", ErrFailedToSave, err)
}
