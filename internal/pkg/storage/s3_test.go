package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type apiMock struct{ mock.Mock }

func (m *apiMock) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(aws.ToString(params.Bucket), aws.ToString(params.Key))
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(args.String(0)))}, nil
}

func (m *apiMock) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(aws.ToString(params.Key))
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *apiMock) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(aws.ToString(params.Key))
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func newTestS3(t *testing.T) (*S3, *apiMock) {
	t.Helper()
	api := &apiMock{}
	s, err := NewS3(api, "bucket")
	require.Nil(t, err)
	return s, api
}

func TestNewS3_Fail(t *testing.T) {
	_, err := NewS3(&apiMock{}, "")
	assert.NotNil(t, err)
}

func TestRead(t *testing.T) {
	s, api := newTestS3(t)
	api.On("GetObject", "bucket", "a/b.json").Return("olia", nil)
	res, err := s.Read(context.Background(), "a/b.json")
	assert.Nil(t, err)
	assert.Equal(t, "olia", string(res))
}

func TestRead_NoKey(t *testing.T) {
	s, api := newTestS3(t)
	api.On("GetObject", "bucket", "a").Return("", &types.NoSuchKey{})
	_, err := s.Read(context.Background(), "a")
	assert.True(t, errors.Is(err, ErrNoObject))
}

func TestDownload(t *testing.T) {
	s, api := newTestS3(t)
	api.On("GetObject", "bucket", "rec/1/audio.mp3").Return("olia", nil)
	dir := t.TempDir()
	res, err := s.Download(context.Background(), "rec/1/audio.mp3", dir)
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "audio.mp3"), res)
	b, _ := os.ReadFile(res)
	assert.Equal(t, "olia", string(b))
}

func TestDownload_Fail(t *testing.T) {
	s, api := newTestS3(t)
	api.On("GetObject", "bucket", "a.mp3").Return("", errors.New("olia"))
	_, err := s.Download(context.Background(), "a.mp3", t.TempDir())
	assert.NotNil(t, err)
}

func TestExists(t *testing.T) {
	s, api := newTestS3(t)
	api.On("HeadObject", "a").Return(nil)
	api.On("HeadObject", "b").Return(&types.NotFound{})
	api.On("HeadObject", "c").Return(errors.New("olia"))
	ok, err := s.Exists(context.Background(), "a")
	assert.Nil(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(context.Background(), "b")
	assert.Nil(t, err)
	assert.False(t, ok)
	_, err = s.Exists(context.Background(), "c")
	assert.NotNil(t, err)
}

func TestDelete(t *testing.T) {
	s, api := newTestS3(t)
	api.On("DeleteObject", "a").Return(nil)
	api.On("DeleteObject", "b").Return(errors.New("olia"))
	assert.Nil(t, s.Delete(context.Background(), "a"))
	assert.NotNil(t, s.Delete(context.Background(), "b"))
}
