package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(params)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(params)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestImageKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "images/1700000000123", ImageKey("", at))
	assert.Equal(t, "images/r1/1700000000123", ImageKey("r1", at))
}

func TestS3ImageStoreUpload(t *testing.T) {
	client := &mockS3{}
	store := &S3ImageStore{client: client, bucket: "receitas-images"}

	client.On("PutObject", mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "receitas-images" &&
			aws.ToString(in.Key) == "images/r1/1" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			string(body) == "data"
	})).Return(nil)

	url, err := store.Upload(context.Background(), "images/r1/1", []byte("data"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://receitas-images.s3.amazonaws.com/images/r1/1", url)
	client.AssertExpectations(t)
}

func TestS3ImageStoreErrors(t *testing.T) {
	client := &mockS3{}
	store := &S3ImageStore{client: client, bucket: "receitas-images"}
	denied := errors.New("access denied")

	client.On("PutObject", mock.Anything).Return(denied)
	client.On("DeleteObject", mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "images/1"
	})).Return(denied)

	_, err := store.Upload(context.Background(), "images/1", []byte("x"), "image/png")
	assert.ErrorIs(t, err, denied)

	err = store.Delete(context.Background(), "images/1")
	assert.ErrorIs(t, err, denied)
}
