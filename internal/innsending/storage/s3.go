package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds configuration for S3.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional, for MinIO or LocalStack
	Prefix   string
}

// S3 stores documents as objects keyed by submission id.
type S3 struct {
	client S3API
	bucket string
	prefix string
}

// NewS3 creates an S3 store on an existing client.
func NewS3(client S3API, bucket, prefix string) (*S3, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &S3{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3FromConfig loads the default AWS configuration and creates an S3 store.
func NewS3FromConfig(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3(client, cfg.Bucket, cfg.Prefix)
}

// Save puts one object per document.
func (s *S3) Save(ctx context.Context, submissionID, _ string, docs []Document) ([]Stored, error) {
	stored := make([]Stored, 0, len(docs))
	for _, d := range docs {
		key := objectKey(s.prefix, submissionID, d.Variant)
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(d.Content),
			ContentType: aws.String("application/pdf"),
		})
		if err != nil {
			return nil, fmt.Errorf("s3 put %s: %w", key, err)
		}
		stored = append(stored, Stored{
			Variant:  d.Variant,
			Filename: d.Variant.Filename(),
			URN:      fmt.Sprintf("urn:s3:%s:%s", s.bucket, key),
		})
	}
	return stored, nil
}
