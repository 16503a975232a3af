package worker

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/messages"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
)

type (
	//TranscriptionStore reads and updates transcriptions
	TranscriptionStore interface {
		Get(ctx context.Context, id string) (*persistence.Transcription, error)
		GetByMinuteID(ctx context.Context, minuteID string) (*persistence.Transcription, error)
		Update(ctx context.Context, id string, upd *persistence.TranscriptionUpdate) error
	}

	//MinuteStore reads and updates minute versions
	MinuteStore interface {
		GetVersion(ctx context.Context, id string) (*persistence.MinuteVersionData, error)
		GetOnlyVersion(ctx context.Context, minuteID string) (*persistence.MinuteVersion, error)
		UpdateVersion(ctx context.Context, id string, upd *persistence.MinuteVersionUpdate) error
	}

	//ChatStore reads and updates chats
	ChatStore interface {
		Get(ctx context.Context, id string) (*persistence.Chat, error)
		List(ctx context.Context, transcriptionID string) ([]*persistence.Chat, error)
		Update(ctx context.Context, id string, upd *persistence.ChatUpdate) error
	}

	//Transcriber starts and checks speech to text jobs
	Transcriber interface {
		Start(ctx context.Context, tr *persistence.Transcription) (*messages.TranscriptionJobData, error)
		Check(ctx context.Context, name string, data *messages.TranscriptionJobData) (*messages.TranscriptionJobData, error)
	}

	//SpeakerProcessor cleans speaker labels, never fails
	SpeakerProcessor interface {
		Identify(ctx context.Context, entries []api.DialogueEntry) []api.DialogueEntry
	}

	//Generator creates and edits minutes
	Generator interface {
		Generate(ctx context.Context, minute *persistence.Minute, entries []api.DialogueEntry) (string, []api.Hallucination, error)
		Edit(ctx context.Context, minutes, instructions string, entries []api.DialogueEntry) (string, []api.Hallucination, error)
	}

	//ChatResponder answers the last chat
	ChatResponder interface {
		Respond(ctx context.Context, entries []api.DialogueEntry, chats []*persistence.Chat) (string, error)
	}

	//Notifier sends job status events
	Notifier interface {
		Notify(ctx context.Context, ev *api.StatusEvent) error
	}

	//Beater touches actor heartbeat
	Beater interface {
		Beat()
	}
)

func notify(ctx context.Context, n Notifier, entity, id string, st status.Status, errStr string) {
	if n == nil {
		return
	}
	err := n.Notify(ctx, &api.StatusEvent{Entity: entity, ID: id, Status: status.Name(st), Error: errStr, Time: time.Now()})
	if err != nil {
		cmdapp.Log.Warnf("Can't send %s %s status event: %v", entity, id, err)
	}
}
