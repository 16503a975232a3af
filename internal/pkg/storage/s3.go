package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

//API is a subset of s3 client used by S3
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

//S3 is an object store of one bucket
type S3 struct {
	api    API
	bucket string
}

//NewS3 returns bucket store
func NewS3(api API, bucket string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("No bucket")
	}
	return &S3{api: api, bucket: bucket}, nil
}

//Bucket returns bucket name
func (s *S3) Bucket() string {
	return s.bucket
}

//Read returns object content
func (s *S3) Read(ctx context.Context, key string) ([]byte, error) {
	r, err := s.reader(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	res, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read %s", key)
	}
	return res, nil
}

//Download saves object into dir keeping the key base name, returns local file path
func (s *S3) Download(ctx context.Context, key, dir string) (string, error) {
	r, err := s.reader(ctx, key)
	if err != nil {
		return "", err
	}
	defer r.Close()
	res := filepath.Join(dir, filepath.Base(key))
	f, err := os.Create(res)
	if err != nil {
		return "", errors.Wrapf(err, "Can't create %s", res)
	}
	defer f.Close()
	n, err := io.Copy(f, r)
	if err != nil {
		return "", errors.Wrapf(err, "Can't save %s", key)
	}
	cmdapp.Log.Debugf("Downloaded %s (%d bytes)", key, n)
	return res, nil
}

func (s *S3) reader(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		var nk *types.NoSuchKey
		if errors.As(err, &nk) {
			return nil, errors.Wrapf(ErrNoObject, "s3://%s/%s", s.bucket, key)
		}
		return nil, errors.Wrapf(err, "Can't get s3://%s/%s", s.bucket, key)
	}
	return out.Body, nil
}

//Exists checks object presence
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, errors.Wrapf(err, "Can't check s3://%s/%s", s.bucket, key)
	}
	return true, nil
}

//Delete removes object
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return errors.Wrapf(err, "Can't delete s3://%s/%s", s.bucket, key)
	}
	return nil
}
