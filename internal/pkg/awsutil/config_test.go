package awsutil

import (
	"context"
	"testing"

	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettings(env string, local bool) *config.Settings {
	res := &config.Settings{Environment: env}
	res.AWS.Region = "eu-west-2"
	res.AWS.UseLocalstack = local
	res.AWS.LocalstackURL = "http://localstack:4566"
	return res
}

func TestUseLocalstack(t *testing.T) {
	assert.True(t, UseLocalstack(newSettings("local", true)))
	assert.False(t, UseLocalstack(newSettings("prod", true)))
	assert.False(t, UseLocalstack(newSettings("local", false)))
}

func TestNewConfig_Localstack(t *testing.T) {
	cfg, err := NewConfig(context.Background(), newSettings("local", true))
	require.Nil(t, err)
	assert.Equal(t, "eu-west-2", cfg.Region)
	ep, err := cfg.EndpointResolverWithOptions.ResolveEndpoint("s3", "eu-west-2")
	require.Nil(t, err)
	assert.Equal(t, "http://localstack:4566", ep.URL)
	cr, err := cfg.Credentials.Retrieve(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "test", cr.AccessKeyID)
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(context.Background(), newSettings("prod", true))
	require.Nil(t, err)
	assert.Equal(t, "eu-west-2", cfg.Region)
	assert.Nil(t, cfg.EndpointResolverWithOptions)
}
