package transcription

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/persistence"
)

//AdapterType tells what input adapter needs
type AdapterType int

const (
	// Synchronous adapters transcribe the local file and return transcript at once
	Synchronous AdapterType = iota + 1
	// Async adapters start remote job on the stored recording
	Async
)

func (t AdapterType) String() string {
	if t == Synchronous {
		return "SYNCHRONOUS"
	}
	return "ASYNC"
}

//Input for adapter Start: FilePath for Synchronous, Recording for Async adapters
type Input struct {
	FilePath  string
	Recording *persistence.Recording
}

//Adapter is a speech to text backend
type Adapter interface {
	Name() string
	// MaxAudioLength in seconds
	MaxAudioLength() int
	Type() AdapterType
	IsAvailable() bool
	Start(ctx context.Context, in *Input) (*messages.TranscriptionJobData, error)
	// Check polls remote job, Synchronous adapters return data unchanged
	Check(ctx context.Context, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error)
}
