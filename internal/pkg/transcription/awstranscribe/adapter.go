package awstranscribe

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/transcription"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

//Name of the adapter
const Name = "aws_transcribe"

const (
	maxAudioLength   = 14400
	maxSpeakerLabels = 30
)

type (
	// API is a subset of transcribe client used by the adapter
	API interface {
		StartTranscriptionJob(ctx context.Context, params *transcribe.StartTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.StartTranscriptionJobOutput, error)
		GetTranscriptionJob(ctx context.Context, params *transcribe.GetTranscriptionJobInput, optFns ...func(*transcribe.Options)) (*transcribe.GetTranscriptionJobOutput, error)
	}

	// Storage reads and deletes transcribe output
	Storage interface {
		Read(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
	}

	// Config of the adapter
	Config struct {
		Environment string
		Bucket      string
		AccountID   string
		Region      string
	}
)

//Adapter runs AWS Transcribe jobs on recordings stored in the data bucket
type Adapter struct {
	api     API
	storage Storage
	cfg     Config
	retries int
	delay   time.Duration
}

//New creates the adapter
func New(api API, storage Storage, cfg Config) (*Adapter, error) {
	if api == nil {
		return nil, errors.New("No transcribe api")
	}
	if storage == nil {
		return nil, errors.New("No storage")
	}
	return &Adapter{api: api, storage: storage, cfg: cfg, retries: 5, delay: 5 * time.Second}, nil
}

//Name returns adapter name
func (a *Adapter) Name() string { return Name }

//MaxAudioLength returns max audio length in seconds
func (a *Adapter) MaxAudioLength() int { return maxAudioLength }

//Type returns transcription.Async
func (a *Adapter) Type() transcription.AdapterType { return transcription.Async }

//IsAvailable requires aws account and region
func (a *Adapter) IsAvailable() bool {
	return a.cfg.AccountID != "" && a.cfg.Region != ""
}

//Start starts transcription job for the stored recording
func (a *Adapter) Start(ctx context.Context, in *transcription.Input) (*messages.TranscriptionJobData, error) {
	if in == nil || in.Recording == nil || in.Recording.S3FileKey == "" {
		return nil, errors.New("No recording")
	}
	id := uuid.New().String()
	job := "minute-" + a.cfg.Environment + "-transcription-job-" + id
	_, err := a.api.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(job),
		Media:                &types.Media{MediaFileUri: aws.String("s3://" + a.cfg.Bucket + "/" + in.Recording.S3FileKey)},
		OutputBucketName:     aws.String(a.cfg.Bucket),
		OutputKey:            aws.String("app_data/transcribe-output/" + id + "/"),
		LanguageCode:         types.LanguageCodeEnGb,
		Settings:             &types.Settings{ShowSpeakerLabels: aws.Bool(true), MaxSpeakerLabels: aws.Int32(maxSpeakerLabels)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't start transcription job")
	}
	cmdapp.Log.Infof("Started transcription job %s", job)
	return &messages.TranscriptionJobData{TranscriptionService: Name, JobName: job}, nil
}

//Check polls the job a few times. Returns data unchanged if the job is still running
func (a *Adapter) Check(ctx context.Context, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error) {
	for i := 0; i < a.retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.delay):
			}
		}
		out, err := a.api.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{TranscriptionJobName: aws.String(data.JobName)})
		if err != nil {
			return nil, errors.Wrapf(err, "Can't get transcription job %s", data.JobName)
		}
		job := out.TranscriptionJob
		if job == nil {
			return nil, errors.Errorf("No transcription job %s", data.JobName)
		}
		switch job.TranscriptionJobStatus {
		case types.TranscriptionJobStatusCompleted:
			entries, err := a.result(ctx, job)
			if err != nil {
				return nil, err
			}
			if len(entries) == 0 {
				return nil, errors.Errorf("Empty transcript of job %s", data.JobName)
			}
			res := data.Copy()
			res.Transcript = entries
			return res, nil
		case types.TranscriptionJobStatusFailed:
			reason := aws.ToString(job.FailureReason)
			if reason == "" {
				reason = "Unknown error"
			}
			return nil, errors.Errorf("Transcription job failed: %s", reason)
		}
		cmdapp.Log.Debugf("Job %s: %s", data.JobName, job.TranscriptionJobStatus)
	}
	return data, nil
}

func (a *Adapter) result(ctx context.Context, job *types.TranscriptionJob) ([]api.DialogueEntry, error) {
	if job.Transcript == nil {
		return nil, errors.New("No transcript uri")
	}
	key, err := outputKey(aws.ToString(job.Transcript.TranscriptFileUri), a.cfg.Bucket)
	if err != nil {
		return nil, err
	}
	b, err := a.storage.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := a.storage.Delete(ctx, key); err != nil {
		cmdapp.Log.Warnf("Failed to delete transcript: %v", err)
	}
	return parse(b)
}

func outputKey(uri, bucket string) (string, error) {
	strs := strings.SplitN(uri, bucket+"/", 2)
	if len(strs) != 2 || strs[1] == "" {
		return "", errors.Errorf("Can't extract key from '%s'", uri)
	}
	return strs[1], nil
}

type output struct {
	Results struct {
		AudioSegments []segment `json:"audio_segments"`
	} `json:"results"`
}

type segment struct {
	SpeakerLabel string `json:"speaker_label"`
	Transcript   string `json:"transcript"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

func parse(b []byte) ([]api.DialogueEntry, error) {
	var data output
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrap(err, "Can't decode transcript")
	}
	res := make([]api.DialogueEntry, 0, len(data.Results.AudioSegments))
	for _, s := range data.Results.AudioSegments {
		st, err := strconv.ParseFloat(s.StartTime, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Wrong start time '%s'", s.StartTime)
		}
		et, err := strconv.ParseFloat(s.EndTime, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Wrong end time '%s'", s.EndTime)
		}
		res = append(res, api.DialogueEntry{Speaker: s.SpeakerLabel, Text: s.Transcript, StartTime: st, EndTime: et})
	}
	return res, nil
}
