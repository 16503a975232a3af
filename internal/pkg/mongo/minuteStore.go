package mongo

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//MinuteStore reads and updates minutes and their versions
type MinuteStore struct {
	SessionProvider *SessionProvider
	transcriptions  *TranscriptionStore
	now             func() time.Time
}

//NewMinuteStore creates MinuteStore instance
func NewMinuteStore(sessionProvider *SessionProvider) (*MinuteStore, error) {
	ts, err := NewTranscriptionStore(sessionProvider)
	if err != nil {
		return nil, err
	}
	return &MinuteStore{SessionProvider: sessionProvider, transcriptions: ts, now: time.Now}, nil
}

//GetVersion loads minute version with its minute and transcription
func (ms *MinuteStore) GetVersion(ctx context.Context, id string) (*persistence.MinuteVersionData, error) {
	res := &persistence.MinuteVersionData{Version: &persistence.MinuteVersion{}, Minute: &persistence.Minute{}}
	if err := findOne(ctx, ms.SessionProvider, minuteVersionTable, idFilter(id), res.Version); err != nil {
		return nil, err
	}
	if err := findOne(ctx, ms.SessionProvider, minuteTable, idFilter(res.Version.MinuteID), res.Minute); err != nil {
		return nil, err
	}
	var err error
	if res.Transcription, err = ms.transcriptions.Get(ctx, res.Minute.TranscriptionID); err != nil {
		return nil, err
	}
	return res, nil
}

//GetOnlyVersion returns the single version of a new minute
func (ms *MinuteStore) GetOnlyVersion(ctx context.Context, minuteID string) (*persistence.MinuteVersion, error) {
	var res []*persistence.MinuteVersion
	err := findAll(ctx, ms.SessionProvider, minuteVersionTable, bson.M{"minuteID": minuteID},
		options.Find().SetLimit(2), &res)
	if err != nil {
		return nil, err
	}
	return onlyVersion(minuteID, res)
}

func onlyVersion(minuteID string, versions []*persistence.MinuteVersion) (*persistence.MinuteVersion, error) {
	if len(versions) == 0 {
		return nil, errors.Wrapf(persistence.ErrNotFound, "minute version for minute %s", minuteID)
	}
	if len(versions) > 1 {
		return nil, errors.Errorf("More than one minute version for minute %s", minuteID)
	}
	return versions[0], nil
}

//UpdateVersion writes not empty minute version fields
func (ms *MinuteStore) UpdateVersion(ctx context.Context, id string, upd *persistence.MinuteVersionUpdate) error {
	cmdapp.Log.Infof("Saving minute version %s: %s", id, upd.Status)
	return updateOne(ctx, ms.SessionProvider, minuteVersionTable, id, minuteVersionSet(upd, ms.now()))
}
