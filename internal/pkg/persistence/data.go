package persistence

import (
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/status"
	"github.com/pkg/errors"
)

//ContentSource values of minute version
const (
	ContentManualEdit        = "manual_edit"
	ContentAIEdit            = "ai_edit"
	ContentInitialGeneration = "initial_generation"
)

//DefaultTemplate is a template name of a new minute
const DefaultTemplate = "General"

type (
	// User owns transcriptions, nil DataRetentionDays keeps data forever
	User struct {
		ID                string    `bson:"ID"`
		Email             string    `bson:"email"`
		DataRetentionDays *int      `bson:"dataRetentionDays,omitempty"`
		Created           time.Time `bson:"created"`
	}

	// Recording is an uploaded audio file
	Recording struct {
		ID              string    `bson:"ID"`
		UserID          string    `bson:"userID"`
		S3FileKey       string    `bson:"s3FileKey"`
		TranscriptionID string    `bson:"transcriptionID,omitempty"`
		Created         time.Time `bson:"created"`
	}

	// Transcription keeps dialogue entries of recordings
	Transcription struct {
		ID              string              `bson:"ID"`
		UserID          string              `bson:"userID,omitempty"`
		Title           string              `bson:"title,omitempty"`
		DialogueEntries []api.DialogueEntry `bson:"dialogueEntries,omitempty"`
		Status          string              `bson:"status"`
		Error           string              `bson:"error,omitempty"`
		Created         time.Time           `bson:"created"`
		Updated         time.Time           `bson:"updated"`
		// Recordings are loaded separately, newest first
		Recordings []*Recording `bson:"-"`
	}

	// Minute is a generated summary of a transcription
	Minute struct {
		ID              string    `bson:"ID"`
		TranscriptionID string    `bson:"transcriptionID"`
		TemplateName    string    `bson:"templateName"`
		Agenda          string    `bson:"agenda,omitempty"`
		Created         time.Time `bson:"created"`
		Updated         time.Time `bson:"updated"`
	}

	// MinuteVersion is one generated or edited minute content
	MinuteVersion struct {
		ID                 string              `bson:"ID"`
		MinuteID           string              `bson:"minuteID"`
		HTMLContent        string              `bson:"htmlContent"`
		Status             string              `bson:"status"`
		Error              string              `bson:"error,omitempty"`
		AIEditInstructions string              `bson:"aiEditInstructions,omitempty"`
		ContentSource      string              `bson:"contentSource"`
		Hallucinations     []api.Hallucination `bson:"hallucinations,omitempty"`
		Created            time.Time           `bson:"created"`
		Updated            time.Time           `bson:"updated"`
	}

	// Chat is one question and answer over a transcription
	Chat struct {
		ID               string    `bson:"ID"`
		TranscriptionID  string    `bson:"transcriptionID"`
		UserContent      string    `bson:"userContent"`
		AssistantContent string    `bson:"assistantContent,omitempty"`
		Status           string    `bson:"status"`
		Error            string    `bson:"error,omitempty"`
		Created          time.Time `bson:"created"`
		Updated          time.Time `bson:"updated"`
	}

	// MinuteVersionData is a minute version with its minute and transcription
	MinuteVersionData struct {
		Version       *MinuteVersion
		Minute        *Minute
		Transcription *Transcription
	}

	// TranscriptionUpdate lists fields to change, zero fields are not written
	TranscriptionUpdate struct {
		Status          status.Status
		Error           string
		DialogueEntries []api.DialogueEntry
	}

	// MinuteVersionUpdate lists fields to change, zero fields are not written.
	// Not nil Hallucinations replace the stored ones
	MinuteVersionUpdate struct {
		Status         status.Status
		Error          string
		HTMLContent    string
		Hallucinations []api.Hallucination
	}

	// ChatUpdate lists fields to change, zero fields are not written
	ChatUpdate struct {
		Status           status.Status
		Error            string
		AssistantContent string
	}
)

//RecordingKey returns storage key of the newest recording
func (t *Transcription) RecordingKey() string {
	if len(t.Recordings) == 0 {
		return ""
	}
	return t.Recordings[0].S3FileKey
}

//ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")
