package worker

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
	"github.com/pkg/errors"
)

type transcriptionHandler struct {
	transcriptions TranscriptionStore
	transcriber    Transcriber
	speakers       SpeakerProcessor
	notifier       Notifier
}

//process runs transcription of the minute. Returned job data without transcript means
//remote job is still running and must be checked later
func (h *transcriptionHandler) process(ctx context.Context, minuteID string, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error) {
	tr, err := h.transcriptions.GetByMinuteID(ctx, minuteID)
	if err != nil {
		return nil, &TranscriptionFailedError{Err: errors.Wrapf(err, "Can't load transcription of minute %s", minuteID)}
	}
	res, err := h.run(ctx, tr, data)
	if err != nil {
		msg := "Transcription failed: " + err.Error()
		cmdapp.Log.Error(msg)
		if err := h.transcriptions.Update(ctx, tr.ID, &persistence.TranscriptionUpdate{Status: status.Failed, Error: msg}); err != nil {
			cmdapp.Log.Error(errors.Wrapf(err, "Can't update transcription %s status. Maybe it doesn't exist?", tr.ID))
		} else {
			notify(ctx, h.notifier, api.EntityTranscription, tr.ID, status.Failed, msg)
		}
		return nil, &TranscriptionFailedError{Err: err}
	}
	return res, nil
}

func (h *transcriptionHandler) run(ctx context.Context, tr *persistence.Transcription, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error) {
	var job *messages.TranscriptionJobData
	var err error
	if data != nil {
		job, err = h.transcriber.Check(ctx, data.TranscriptionService, data)
	} else {
		if err := h.transcriptions.Update(ctx, tr.ID, &persistence.TranscriptionUpdate{Status: status.InProgress}); err != nil {
			return nil, err
		}
		job, err = h.transcriber.Start(ctx, tr)
	}
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.New("No transcription job data")
	}
	if !job.HasTranscript() {
		return job, nil
	}
	res := job.Copy()
	res.Transcript = h.speakers.Identify(ctx, job.Transcript)
	err = h.transcriptions.Update(ctx, tr.ID, &persistence.TranscriptionUpdate{Status: status.Completed, DialogueEntries: res.Transcript})
	if err != nil {
		return nil, err
	}
	notify(ctx, h.notifier, api.EntityTranscription, tr.ID, status.Completed, "")
	return res, nil
}
