package mongo

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

//Cleaner finds and deletes old data
type Cleaner struct {
	SessionProvider *SessionProvider
	now             func() time.Time
}

//NewCleaner creates Cleaner instance
func NewCleaner(sessionProvider *SessionProvider) (*Cleaner, error) {
	return &Cleaner{SessionProvider: sessionProvider, now: time.Now}, nil
}

//FailStale marks in progress transcriptions and minute versions created before the time as failed
func (cl *Cleaner) FailStale(ctx context.Context, before time.Time, msg string) (int64, error) {
	var res int64
	for _, table := range []string{minuteVersionTable, transcriptionTable} {
		n, err := cl.failStale(ctx, table, before, msg)
		if err != nil {
			return res, err
		}
		res += n
	}
	return res, nil
}

func (cl *Cleaner) failStale(ctx context.Context, table string, before time.Time, msg string) (int64, error) {
	c, ctx, cancel, err := newColl(ctx, cl.SessionProvider, table)
	if err != nil {
		return 0, err
	}
	defer cancel()
	res, err := c.UpdateMany(ctx, staleFilter(before),
		bson.M{"$set": bson.M{"status": status.Name(status.Failed), "error": msg, "updated": cl.now()}})
	if err != nil {
		return 0, errors.Wrapf(err, "Can't update %s", table)
	}
	if res.ModifiedCount > 0 {
		cmdapp.Log.Infof("Marked %d stale records in %s as failed", res.ModifiedCount, table)
	}
	return res.ModifiedCount, nil
}

func staleFilter(before time.Time) bson.M {
	return bson.M{"status": status.Name(status.InProgress), "created": bson.M{"$lt": before}}
}

//UsersWithRetention returns users having data retention set
func (cl *Cleaner) UsersWithRetention(ctx context.Context) ([]*persistence.User, error) {
	var res []*persistence.User
	err := findAll(ctx, cl.SessionProvider, userTable, bson.M{"dataRetentionDays": bson.M{"$ne": nil}}, nil, &res)
	return res, err
}

//ExpiredTranscriptions returns IDs of user transcriptions created before the time
func (cl *Cleaner) ExpiredTranscriptions(ctx context.Context, userID string, before time.Time) ([]string, error) {
	var res []*persistence.Transcription
	err := findAll(ctx, cl.SessionProvider, transcriptionTable,
		bson.M{"userID": userID, "created": bson.M{"$lt": before}}, nil, &res)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res))
	for _, t := range res {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

//DeleteTranscription deletes transcription with its minutes, minute versions and chats.
//Recordings are detached and left for orphan cleaning
func (cl *Cleaner) DeleteTranscription(ctx context.Context, id string) error {
	cmdapp.Log.Infof("Deleting transcription %s", id)
	var minutes []*persistence.Minute
	if err := findAll(ctx, cl.SessionProvider, minuteTable, bson.M{"transcriptionID": id}, nil, &minutes); err != nil {
		return err
	}
	for _, m := range minutes {
		if err := cl.deleteMany(ctx, minuteVersionTable, bson.M{"minuteID": m.ID}); err != nil {
			return err
		}
	}
	if err := cl.deleteMany(ctx, minuteTable, bson.M{"transcriptionID": id}); err != nil {
		return err
	}
	if err := cl.deleteMany(ctx, chatTable, bson.M{"transcriptionID": id}); err != nil {
		return err
	}
	if err := cl.detachRecordings(ctx, id); err != nil {
		return err
	}
	return cl.deleteMany(ctx, transcriptionTable, idFilter(id))
}

func (cl *Cleaner) detachRecordings(ctx context.Context, transcriptionID string) error {
	c, ctx, cancel, err := newColl(ctx, cl.SessionProvider, recordingTable)
	if err != nil {
		return err
	}
	defer cancel()
	_, err = c.UpdateMany(ctx, bson.M{"transcriptionID": transcriptionID}, bson.M{"$unset": bson.M{"transcriptionID": ""}})
	if err != nil {
		return errors.Wrap(err, "Can't detach recordings")
	}
	return nil
}

//OrphanRecordings returns recordings without transcription
func (cl *Cleaner) OrphanRecordings(ctx context.Context) ([]*persistence.Recording, error) {
	var res []*persistence.Recording
	err := findAll(ctx, cl.SessionProvider, recordingTable, orphanFilter(), nil, &res)
	return res, err
}

func orphanFilter() bson.M {
	return bson.M{"$or": bson.A{bson.M{"transcriptionID": bson.M{"$exists": false}}, bson.M{"transcriptionID": ""}}}
}

//DeleteRecording deletes recording record
func (cl *Cleaner) DeleteRecording(ctx context.Context, id string) error {
	return cl.deleteMany(ctx, recordingTable, idFilter(id))
}

func (cl *Cleaner) deleteMany(ctx context.Context, table string, filter bson.M) error {
	c, ctx, cancel, err := newColl(ctx, cl.SessionProvider, table)
	if err != nil {
		return err
	}
	defer cancel()
	info, err := c.DeleteMany(ctx, filter)
	if err != nil {
		return errors.Wrapf(err, "Can't delete from %s", table)
	}
	cmdapp.Log.Debugf("Deleted %d from %s", info.DeletedCount, table)
	return nil
}
