package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads retrieval artifacts (the station attribute table) to a
// shared bucket.
type S3Store struct {
	client     S3Client
	bucketName string
}

func NewS3Store(client S3Client, bucketName string) *S3Store {
	return &S3Store{
		client:     client,
		bucketName: bucketName,
	}
}

// NewS3ClientFromEnv builds an S3 client from the ambient AWS configuration.
func NewS3ClientFromEnv(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// UploadFile uploads a local file under the given key.
func (s *S3Store) UploadFile(ctx context.Context, key, path string) error {
	if s.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func(f *os.File) {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Error closing artifact file")
		}
	}(f)

	if err := s.Upload(ctx, key, f); err != nil {
		return fmt.Errorf("uploading %s: %w", path, err)
	}

	log.Info().Str("bucket", s.bucketName).Str("key", key).Str("path", path).Msg("Uploaded artifact")
	return nil
}

// Upload stores the reader's content under the given key.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader) error {
	if s.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	return nil
}

// Fetch retrieves an artifact by key. The caller owns the returned reader.
func (s *S3Store) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s from S3: %w", key, err)
	}

	return result.Body, nil
}
