package messages

import (
	"bytes"
	"encoding/json"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

//SynchronousJobName is a job name of adapters returning transcript at once
const SynchronousJobName = "synchronous"

type (
	// WorkerMessage is a message going through the worker queues
	WorkerMessage struct {
		ID   uuid.UUID
		Type TaskType
		// Data is nil, *EditData or *TranscriptionJobData
		Data Data
	}

	// Data is an optional payload of WorkerMessage
	Data interface {
		shape() string
	}

	// EditData points to the minute version the edit is based on
	EditData struct {
		SourceID uuid.UUID `json:"source_id"`
	}

	// TranscriptionJobData keeps in-flight async transcription state.
	// Transcript is nil until the remote job completes
	TranscriptionJobData struct {
		TranscriptionService string              `json:"transcription_service"`
		JobName              string              `json:"job_name"`
		Transcript           []api.DialogueEntry `json:"transcript"`
	}
)

func (d *EditData) shape() string {
	return "source_id"
}

func (d *TranscriptionJobData) shape() string {
	return "transcription_service"
}

//HasTranscript returns true if remote job has finished
func (d *TranscriptionJobData) HasTranscript() bool {
	return d != nil && len(d.Transcript) > 0
}

//Copy returns a copy with own transcript slice
func (d *TranscriptionJobData) Copy() *TranscriptionJobData {
	res := *d
	if d.Transcript != nil {
		res.Transcript = make([]api.DialogueEntry, len(d.Transcript))
		copy(res.Transcript, d.Transcript)
	}
	return &res
}

//NewWorkerMessage creates message without data
func NewWorkerMessage(id uuid.UUID, t TaskType) *WorkerMessage {
	return &WorkerMessage{ID: id, Type: t}
}

//NewTranscriptionMessage creates transcription message carrying async job state
func NewTranscriptionMessage(id uuid.UUID, job *TranscriptionJobData) *WorkerMessage {
	res := &WorkerMessage{ID: id, Type: Transcription}
	if job != nil {
		res.Data = job
	}
	return res
}

//NewEditMessage creates edit message for target minute version
func NewEditMessage(targetID, sourceID uuid.UUID) *WorkerMessage {
	return &WorkerMessage{ID: targetID, Type: Edit, Data: &EditData{SourceID: sourceID}}
}

//EditData returns edit payload or nil
func (m *WorkerMessage) EditData() *EditData {
	res, _ := m.Data.(*EditData)
	return res
}

//TranscriptionJobData returns transcription job payload or nil
func (m *WorkerMessage) TranscriptionJobData() *TranscriptionJobData {
	res, _ := m.Data.(*TranscriptionJobData)
	return res
}

type wireMessage struct {
	ID   *uuid.UUID      `json:"id"`
	Type *TaskType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

//MarshalJSON writes {"id", "type", "data"}, data is null when absent
func (m WorkerMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   uuid.UUID `json:"id"`
		Type TaskType  `json:"type"`
		Data Data      `json:"data"`
	}{ID: m.ID, Type: m.Type, Data: m.Data})
}

//UnmarshalJSON reads the message and resolves data payload by its shape
func (m *WorkerMessage) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == nil {
		return errors.New("No id")
	}
	if w.Type == nil {
		return errors.New("No type")
	}
	data, err := decodeData(w.Data)
	if err != nil {
		return err
	}
	m.ID, m.Type, m.Data = *w.ID, *w.Type, data
	return nil
}

func decodeData(raw json.RawMessage) (Data, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "Can't decode data")
	}
	if _, ok := fields[(&EditData{}).shape()]; ok {
		res := &EditData{}
		if err := json.Unmarshal(raw, res); err != nil {
			return nil, errors.Wrap(err, "Can't decode edit data")
		}
		return res, nil
	}
	if _, ok := fields[(&TranscriptionJobData{}).shape()]; ok {
		res := &TranscriptionJobData{JobName: SynchronousJobName}
		if err := json.Unmarshal(raw, res); err != nil {
			return nil, errors.Wrap(err, "Can't decode transcription job data")
		}
		return res, nil
	}
	return nil, errors.Errorf("Unknown data shape: %s", string(raw))
}

//Decode parses queue message body
func Decode(body []byte) (*WorkerMessage, error) {
	res := &WorkerMessage{}
	if err := json.Unmarshal(body, res); err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal message "+string(body))
	}
	return res, nil
}

//Encode serializes message for queue
func Encode(m *WorkerMessage) ([]byte, error) {
	res, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal message")
	}
	return res, nil
}
