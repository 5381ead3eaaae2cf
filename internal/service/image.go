package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/receitas/backend/config"
)

// ImageStore persists recipe images in a blob store
type ImageStore interface {
	// Upload stores data under key and returns its public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageKey returns the blob key for an upload at now. Images uploaded
// before their recipe exists go under images/{timestamp}.
func ImageKey(recipeID string, now time.Time) string {
	if recipeID == "" {
		return fmt.Sprintf("images/%d", now.UnixMilli())
	}
	return fmt.Sprintf("images/%s/%d", recipeID, now.UnixMilli())
}

// s3API is the part of the S3 client the image store uses
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore stores images in an S3 bucket with public object URLs
type S3ImageStore struct {
	client s3API
	bucket string
}

// NewS3ImageStore creates an ImageStore over the configured bucket
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{client: s3Config.Client, bucket: s3Config.BucketName}
}

// Upload uploads image data to S3 and returns the public URL
func (s *S3ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)
	return publicURL, nil
}

// Delete removes an object from the bucket
func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", key, err)
	}
	return nil
}
