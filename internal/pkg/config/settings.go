package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	// Settings is the full service configuration. It is built once at startup
	// and passed to every component that needs a value from it
	Settings struct {
		Environment   string                `mapstructure:"environment" validate:"required"`
		Port          int                   `mapstructure:"port" validate:"min=0,max=65535"`
		Queue         QueueSettings         `mapstructure:"queue"`
		Workers       WorkerSettings        `mapstructure:"workers"`
		Transcription TranscriptionSettings `mapstructure:"transcription"`
		AWS           AWSSettings           `mapstructure:"aws"`
		MessageServer MessageServerSettings `mapstructure:"messageServer"`
		Mongo         MongoSettings         `mapstructure:"mongo"`
		LLM           LLMSettings           `mapstructure:"llm"`
		Minutes       MinutesSettings       `mapstructure:"minutes"`
		Heartbeat     HeartbeatSettings     `mapstructure:"heartbeat"`
		Kafka         KafkaSettings         `mapstructure:"kafka"`
		Redis         RedisSettings         `mapstructure:"redis"`
		Duration      DurationSettings      `mapstructure:"duration"`
		HTTPSTT       HTTPSTTSettings       `mapstructure:"httpSTT"`
		Clean         CleanSettings         `mapstructure:"clean"`
	}

	// QueueSettings selects the queue backend and queue names
	QueueSettings struct {
		Service                      string        `mapstructure:"service" validate:"oneof=sqs rabbit"`
		TranscriptionQueue           string        `mapstructure:"transcriptionQueue" validate:"required"`
		TranscriptionDeadletterQueue string        `mapstructure:"transcriptionDeadletterQueue" validate:"required"`
		LLMQueue                     string        `mapstructure:"llmQueue" validate:"required"`
		LLMDeadletterQueue           string        `mapstructure:"llmDeadletterQueue" validate:"required"`
		PollWait                     time.Duration `mapstructure:"pollWait" validate:"min=0"`
	}

	// WorkerSettings keeps actor pool sizes
	WorkerSettings struct {
		Transcription int           `mapstructure:"transcription" validate:"min=0"`
		LLM           int           `mapstructure:"llm" validate:"min=0"`
		CheckEvery    time.Duration `mapstructure:"checkEvery" validate:"gt=0"`
	}

	// TranscriptionSettings keeps the preferred adapter order
	TranscriptionSettings struct {
		Services []string `mapstructure:"services"`
	}

	// AWSSettings configures aws clients
	AWSSettings struct {
		Region        string `mapstructure:"region"`
		AccountID     string `mapstructure:"accountID"`
		DataBucket    string `mapstructure:"dataBucket"`
		UseLocalstack bool   `mapstructure:"useLocalstack"`
		LocalstackURL string `mapstructure:"localstackURL"`
	}

	// MessageServerSettings configures rabbit mq broker
	MessageServerSettings struct {
		URL         string `mapstructure:"url"`
		User        string `mapstructure:"user"`
		Pass        string `mapstructure:"pass"`
		QueuePrefix string `mapstructure:"queuePrefix"`
	}

	// MongoSettings configures job store
	MongoSettings struct {
		URL string `mapstructure:"url"`
	}

	// LLMSettings keeps fast and best model configurations
	LLMSettings struct {
		Fast               LLMModelSettings `mapstructure:"fast"`
		Best               LLMModelSettings `mapstructure:"best"`
		HallucinationCheck bool             `mapstructure:"hallucinationCheck"`
		Timeout            time.Duration    `mapstructure:"timeout" validate:"gt=0"`
	}

	// LLMModelSettings configures one chat completion endpoint
	LLMModelSettings struct {
		Provider   string `mapstructure:"provider" validate:"oneof=openai azure"`
		URL        string `mapstructure:"url"`
		Key        string `mapstructure:"key"`
		Model      string `mapstructure:"model"`
		APIVersion string `mapstructure:"apiVersion"`
	}

	// MinutesSettings keeps meeting length thresholds
	MinutesSettings struct {
		MinWordCountForSummary     int `mapstructure:"minWordCountForSummary" validate:"min=0"`
		MinWordCountForFullSummary int `mapstructure:"minWordCountForFullSummary" validate:"min=0"`
	}

	// HeartbeatSettings configures worker heartbeats
	HeartbeatSettings struct {
		Store   string        `mapstructure:"store" validate:"oneof=file redis"`
		Dir     string        `mapstructure:"dir"`
		Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	}

	// KafkaSettings configures status events, empty brokers disable events
	KafkaSettings struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	}

	// RedisSettings configures redis connection
	RedisSettings struct {
		URL string `mapstructure:"url"`
	}

	// DurationSettings configures audio duration service
	DurationSettings struct {
		URL string `mapstructure:"url"`
	}

	// HTTPSTTSettings configures synchronous speech to text service
	HTTPSTTSettings struct {
		URL            string `mapstructure:"url"`
		MaxAudioLength int    `mapstructure:"maxAudioLength" validate:"min=0"`
	}

	// CleanSettings configures data clean service
	CleanSettings struct {
		RunEvery   time.Duration `mapstructure:"runEvery" validate:"gt=0"`
		StaleAfter time.Duration `mapstructure:"staleAfter" validate:"gt=0"`
	}
)

var defaults = map[string]interface{}{
	"environment": "local",
	"port":        8000,

	"queue.service":                      "sqs",
	"queue.transcriptionQueue":           "transcription-queue",
	"queue.transcriptionDeadletterQueue": "transcription-queue-deadletter",
	"queue.llmQueue":                     "llm-queue",
	"queue.llmDeadletterQueue":           "llm-queue-deadletter",
	"queue.pollWait":                     "20s",

	"workers.transcription": 1,
	"workers.llm":           1,
	"workers.checkEvery":    "1s",

	"transcription.services": []string{"aws_transcribe"},

	"aws.region":        "eu-west-2",
	"aws.accountID":     "",
	"aws.dataBucket":    "",
	"aws.useLocalstack": false,
	"aws.localstackURL": "http://localhost:4566",

	"messageServer.url":         "",
	"messageServer.user":        "",
	"messageServer.pass":        "",
	"messageServer.queuePrefix": "",

	"mongo.url": "",

	"llm.fast.provider":      "openai",
	"llm.fast.url":           "https://api.openai.com/v1",
	"llm.fast.key":           "",
	"llm.fast.model":         "gpt-4o-mini",
	"llm.fast.apiVersion":    "",
	"llm.best.provider":      "openai",
	"llm.best.url":           "https://api.openai.com/v1",
	"llm.best.key":           "",
	"llm.best.model":         "gpt-4o",
	"llm.best.apiVersion":    "",
	"llm.hallucinationCheck": false,
	"llm.timeout":            "3m",

	"minutes.minWordCountForSummary":     200,
	"minutes.minWordCountForFullSummary": 199,

	"heartbeat.store":   "file",
	"heartbeat.dir":     "/healthcheck",
	"heartbeat.timeout": "1200s",

	"kafka.brokers": []string{},
	"kafka.topic":   "minute-status",

	"redis.url": "",

	"duration.url": "",

	"httpSTT.url":            "",
	"httpSTT.maxAudioLength": 3600,

	"clean.runEvery":   "1h",
	"clean.staleAfter": "24h",
}

//SetDefaults registers default values for every known key, so environment
//variables are visible to viper's Unmarshal
func SetDefaults(v *viper.Viper) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
}

//Load builds and validates Settings from viper
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)
	res := &Settings{}
	if err := v.Unmarshal(res); err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal config")
	}
	if err := validator.New().Struct(res); err != nil {
		return nil, errors.Wrap(err, "Wrong config")
	}
	return res, nil
}
