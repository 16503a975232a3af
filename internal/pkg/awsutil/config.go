package awsutil

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/pkg/errors"
)

//UseLocalstack returns true if aws calls must go to localstack
func UseLocalstack(s *config.Settings) bool {
	return s.AWS.UseLocalstack && s.Environment == "local"
}

//NewConfig loads aws config for the region, localstack endpoint is used in local environment
func NewConfig(ctx context.Context, s *config.Settings) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.AWS.Region)}
	if UseLocalstack(s) {
		cmdapp.Log.Infof("Using localstack: %s", s.AWS.LocalstackURL)
		url := s.AWS.LocalstackURL
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{URL: url, HostnameImmutable: true, SigningRegion: region}, nil
		})
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")))
	}
	res, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "Can't load aws config")
	}
	return res, nil
}

//NewS3 creates s3 client, path style addressing is used for localstack
func NewS3(cfg aws.Config, s *config.Settings) *s3.Client {
	pathStyle := UseLocalstack(s)
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
	})
}

//NewSQS creates sqs client
func NewSQS(cfg aws.Config) *sqs.Client {
	return sqs.NewFromConfig(cfg)
}

//NewTranscribe creates transcribe client
func NewTranscribe(cfg aws.Config) *transcribe.Client {
	return transcribe.NewFromConfig(cfg)
}
