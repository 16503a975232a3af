package mocks

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/queue"
	"github.com/stretchr/testify/mock"
)

//Queue is a queue.Service mock
type Queue struct {
	mock.Mock
}

func (m *Queue) ReceiveMessage(ctx context.Context, max int) ([]*queue.Received, error) {
	args := m.Called(max)
	res, _ := args.Get(0).([]*queue.Received)
	return res, args.Error(1)
}

func (m *Queue) PublishMessage(ctx context.Context, msg *messages.WorkerMessage) error {
	return m.Called(msg).Error(0)
}

func (m *Queue) CompleteMessage(ctx context.Context, handle string) error {
	return m.Called(handle).Error(0)
}

func (m *Queue) DeadletterMessage(ctx context.Context, msg *messages.WorkerMessage, handle string) error {
	return m.Called(msg, handle).Error(0)
}

func (m *Queue) AbandonMessage(ctx context.Context, handle string) error {
	return m.Called(handle).Error(0)
}

func (m *Queue) PurgeMessages(ctx context.Context) error {
	return m.Called().Error(0)
}

//TranscriptionStore is a mock
type TranscriptionStore struct {
	mock.Mock
}

func (m *TranscriptionStore) Get(ctx context.Context, id string) (*persistence.Transcription, error) {
	args := m.Called(id)
	res, _ := args.Get(0).(*persistence.Transcription)
	return res, args.Error(1)
}

func (m *TranscriptionStore) GetByMinuteID(ctx context.Context, minuteID string) (*persistence.Transcription, error) {
	args := m.Called(minuteID)
	res, _ := args.Get(0).(*persistence.Transcription)
	return res, args.Error(1)
}

func (m *TranscriptionStore) Update(ctx context.Context, id string, upd *persistence.TranscriptionUpdate) error {
	return m.Called(id, upd).Error(0)
}

//MinuteStore is a mock
type MinuteStore struct {
	mock.Mock
}

func (m *MinuteStore) GetVersion(ctx context.Context, id string) (*persistence.MinuteVersionData, error) {
	args := m.Called(id)
	res, _ := args.Get(0).(*persistence.MinuteVersionData)
	return res, args.Error(1)
}

func (m *MinuteStore) GetOnlyVersion(ctx context.Context, minuteID string) (*persistence.MinuteVersion, error) {
	args := m.Called(minuteID)
	res, _ := args.Get(0).(*persistence.MinuteVersion)
	return res, args.Error(1)
}

func (m *MinuteStore) UpdateVersion(ctx context.Context, id string, upd *persistence.MinuteVersionUpdate) error {
	return m.Called(id, upd).Error(0)
}

//ChatStore is a mock
type ChatStore struct {
	mock.Mock
}

func (m *ChatStore) Get(ctx context.Context, id string) (*persistence.Chat, error) {
	args := m.Called(id)
	res, _ := args.Get(0).(*persistence.Chat)
	return res, args.Error(1)
}

func (m *ChatStore) List(ctx context.Context, transcriptionID string) ([]*persistence.Chat, error) {
	args := m.Called(transcriptionID)
	res, _ := args.Get(0).([]*persistence.Chat)
	return res, args.Error(1)
}

func (m *ChatStore) Update(ctx context.Context, id string, upd *persistence.ChatUpdate) error {
	return m.Called(id, upd).Error(0)
}

//Transcriber is a mock
type Transcriber struct {
	mock.Mock
}

func (m *Transcriber) Start(ctx context.Context, tr *persistence.Transcription) (*messages.TranscriptionJobData, error) {
	args := m.Called(tr)
	res, _ := args.Get(0).(*messages.TranscriptionJobData)
	return res, args.Error(1)
}

func (m *Transcriber) Check(ctx context.Context, name string, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error) {
	args := m.Called(name, data)
	res, _ := args.Get(0).(*messages.TranscriptionJobData)
	return res, args.Error(1)
}

//Speakers is a mock
type Speakers struct {
	mock.Mock
}

func (m *Speakers) Identify(ctx context.Context, entries []api.DialogueEntry) []api.DialogueEntry {
	res, _ := m.Called(entries).Get(0).([]api.DialogueEntry)
	return res
}

//Generator is a mock
type Generator struct {
	mock.Mock
}

func (m *Generator) Generate(ctx context.Context, minute *persistence.Minute, entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	args := m.Called(minute, entries)
	hs, _ := args.Get(1).([]api.Hallucination)
	return args.String(0), hs, args.Error(2)
}

func (m *Generator) Edit(ctx context.Context, minutes, instructions string, entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	args := m.Called(minutes, instructions, entries)
	hs, _ := args.Get(1).([]api.Hallucination)
	return args.String(0), hs, args.Error(2)
}

//ChatResponder is a mock
type ChatResponder struct {
	mock.Mock
}

func (m *ChatResponder) Respond(ctx context.Context, entries []api.DialogueEntry, chats []*persistence.Chat) (string, error) {
	args := m.Called(entries, chats)
	return args.String(0), args.Error(1)
}

//Notifier is a mock
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, ev *api.StatusEvent) error {
	return m.Called(ev.Entity, ev.ID, ev.Status).Error(0)
}

//Beater is a mock
type Beater struct {
	mock.Mock
}

func (m *Beater) Beat() {
	m.Called()
}
