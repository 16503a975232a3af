package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(newViper())

	require.Nil(t, err)
	assert.Equal(t, "sqs", s.Queue.Service)
	assert.Equal(t, 20*time.Second, s.Queue.PollWait)
	assert.Equal(t, 1, s.Workers.Transcription)
	assert.Equal(t, 1, s.Workers.LLM)
	assert.Equal(t, 200, s.Minutes.MinWordCountForSummary)
	assert.Equal(t, 199, s.Minutes.MinWordCountForFullSummary)
	assert.Equal(t, 1200*time.Second, s.Heartbeat.Timeout)
	assert.Equal(t, []string{"aws_transcribe"}, s.Transcription.Services)
	assert.Equal(t, "http://localhost:4566", s.AWS.LocalstackURL)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("WORKERS_LLM", "4")
	t.Setenv("QUEUE_SERVICE", "rabbit")
	t.Setenv("TRANSCRIPTION_SERVICES", "http_stt,aws_transcribe")

	s, err := Load(newViper())

	require.Nil(t, err)
	assert.Equal(t, 4, s.Workers.LLM)
	assert.Equal(t, "rabbit", s.Queue.Service)
	assert.Equal(t, []string{"http_stt", "aws_transcribe"}, s.Transcription.Services)
}

func TestLoad_FailsOnWrongQueueService(t *testing.T) {
	v := newViper()
	v.Set("queue.service", "azure")

	_, err := Load(v)

	assert.NotNil(t, err)
}

func TestLoad_FailsOnNegativeWorkers(t *testing.T) {
	v := newViper()
	v.Set("workers.transcription", -1)

	_, err := Load(v)

	assert.NotNil(t, err)
}

func TestLoad_FailsOnWrongHeartbeatStore(t *testing.T) {
	v := newViper()
	v.Set("heartbeat.store", "disk")

	_, err := Load(v)

	assert.NotNil(t, err)
}
