package mongo

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//TranscriptionStore reads and updates transcriptions
type TranscriptionStore struct {
	SessionProvider *SessionProvider
	now             func() time.Time
}

//NewTranscriptionStore creates TranscriptionStore instance
func NewTranscriptionStore(sessionProvider *SessionProvider) (*TranscriptionStore, error) {
	return &TranscriptionStore{SessionProvider: sessionProvider, now: time.Now}, nil
}

//Get loads transcription with recordings
func (ts *TranscriptionStore) Get(ctx context.Context, id string) (*persistence.Transcription, error) {
	res := &persistence.Transcription{}
	if err := findOne(ctx, ts.SessionProvider, transcriptionTable, idFilter(id), res); err != nil {
		return nil, err
	}
	var err error
	res.Recordings, err = ts.recordings(ctx, id)
	if err != nil {
		return nil, err
	}
	return res, nil
}

//GetByMinuteID loads transcription of the minute
func (ts *TranscriptionStore) GetByMinuteID(ctx context.Context, minuteID string) (*persistence.Transcription, error) {
	m := &persistence.Minute{}
	if err := findOne(ctx, ts.SessionProvider, minuteTable, idFilter(minuteID), m); err != nil {
		return nil, err
	}
	return ts.Get(ctx, m.TranscriptionID)
}

func (ts *TranscriptionStore) recordings(ctx context.Context, transcriptionID string) ([]*persistence.Recording, error) {
	var res []*persistence.Recording
	err := findAll(ctx, ts.SessionProvider, recordingTable, bson.M{"transcriptionID": transcriptionID},
		options.Find().SetSort(bson.D{{Key: "created", Value: -1}}), &res)
	return res, err
}

//Update writes not empty transcription fields
func (ts *TranscriptionStore) Update(ctx context.Context, id string, upd *persistence.TranscriptionUpdate) error {
	cmdapp.Log.Infof("Saving transcription %s: %s", id, upd.Status)
	return updateOne(ctx, ts.SessionProvider, transcriptionTable, id, transcriptionSet(upd, ts.now()))
}

func findOne(ctx context.Context, sp *SessionProvider, table string, filter bson.M, res interface{}) error {
	c, ctx, cancel, err := newColl(ctx, sp, table)
	if err != nil {
		return err
	}
	defer cancel()
	err = c.FindOne(ctx, filter).Decode(res)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return errors.Wrapf(persistence.ErrNotFound, "%s %v", table, filter)
		}
		return errors.Wrapf(err, "Can't load from %s", table)
	}
	return nil
}

func findAll(ctx context.Context, sp *SessionProvider, table string, filter bson.M, opts *options.FindOptions, res interface{}) error {
	c, ctx, cancel, err := newColl(ctx, sp, table)
	if err != nil {
		return err
	}
	defer cancel()
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return errors.Wrapf(err, "Can't select from %s", table)
	}
	if err := cursor.All(ctx, res); err != nil {
		return errors.Wrapf(err, "Can't decode %s", table)
	}
	return nil
}

func updateOne(ctx context.Context, sp *SessionProvider, table, id string, upd bson.M) error {
	c, ctx, cancel, err := newColl(ctx, sp, table)
	if err != nil {
		return err
	}
	defer cancel()
	res, err := c.UpdateOne(ctx, idFilter(id), upd)
	if err != nil {
		return errors.Wrapf(err, "Can't update %s", table)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(persistence.ErrNotFound, "%s %s", table, id)
	}
	return nil
}
