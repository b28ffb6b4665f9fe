package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	DeleteFile(ctx context.Context, key string) error
	PublicURL(key string) string
}

type storageClient struct {
	bucket    string
	publicURL string
	client    *s3.Client
}

// NewStorageClient builds the S3 client. publicURL is the base used to build
// object links; when empty the virtual-hosted bucket URL is used.
func NewStorageClient(ctx context.Context, region, bucket, publicURL string) (S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	if publicURL == "" {
		publicURL = "https://" + bucket + ".s3." + region + ".amazonaws.com"
	}

	return &storageClient{
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		client:    s3.NewFromConfig(cfg),
	}, nil
}

func (s *storageClient) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("object key is empty")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// DeleteFile is idempotent: a missing object is not an error.
func (s *storageClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}
	return err
}

func (s *storageClient) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicURL + "/" + key
}
