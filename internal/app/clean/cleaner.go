package clean

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/pkg/errors"
)

//StaleError is written to records finalised by the clean job
const StaleError = "Unknown error. Job finalised by cleanup process"

type (
	// Store finds and deletes old records
	Store interface {
		FailStale(ctx context.Context, before time.Time, msg string) (int64, error)
		UsersWithRetention(ctx context.Context) ([]*persistence.User, error)
		ExpiredTranscriptions(ctx context.Context, userID string, before time.Time) ([]string, error)
		DeleteTranscription(ctx context.Context, id string) error
		OrphanRecordings(ctx context.Context) ([]*persistence.Recording, error)
		DeleteRecording(ctx context.Context, id string) error
	}

	// ObjectStorage keeps uploaded recordings
	ObjectStorage interface {
		Exists(ctx context.Context, key string) (bool, error)
		Delete(ctx context.Context, key string) error
	}
)

type cleanerImpl struct {
	store      Store
	storage    ObjectStorage
	staleAfter time.Duration
	now        func() time.Time
}

func newCleanerImpl(store Store, storage ObjectStorage, staleAfter time.Duration) (*cleanerImpl, error) {
	if store == nil {
		return nil, errors.New("No store")
	}
	if storage == nil {
		return nil, errors.New("No storage")
	}
	return &cleanerImpl{store: store, storage: storage, staleAfter: staleAfter, now: time.Now}, nil
}

//Clean deletes transcription with its minutes and chats
func (c *cleanerImpl) Clean(ctx context.Context, id string) error {
	return c.store.DeleteTranscription(ctx, id)
}

//Run executes all clean tasks, a failed task does not stop the others
func (c *cleanerImpl) Run(ctx context.Context) error {
	failed := 0
	tasks := []func(context.Context) error{c.failStale, c.retention, c.orphanRecordings}
	for _, t := range tasks {
		if err := t(ctx); err != nil {
			cmdapp.Log.Error(err)
			failed++
		}
	}
	if failed == len(tasks) {
		return errors.New("All clean tasks failed")
	}
	return nil
}

func (c *cleanerImpl) failStale(ctx context.Context) error {
	n, err := c.store.FailStale(ctx, c.now().Add(-c.staleAfter), StaleError)
	if err != nil {
		return errors.Wrap(err, "Can't finalise stale records")
	}
	cmdapp.Log.Infof("Finalised %d stale records", n)
	return nil
}

func (c *cleanerImpl) retention(ctx context.Context) error {
	users, err := c.store.UsersWithRetention(ctx)
	if err != nil {
		return errors.Wrap(err, "Can't get users")
	}
	var lastErr error
	for _, u := range users {
		if u.DataRetentionDays == nil {
			continue
		}
		before := c.now().AddDate(0, 0, -*u.DataRetentionDays)
		ids, err := c.store.ExpiredTranscriptions(ctx, u.ID, before)
		if err != nil {
			lastErr = errors.Wrapf(err, "Can't get transcriptions of user %s", u.ID)
			cmdapp.Log.Error(lastErr)
			continue
		}
		cmdapp.Log.Infof("Got %d expired transcriptions of user %s", len(ids), u.ID)
		for _, id := range ids {
			if err := c.store.DeleteTranscription(ctx, id); err != nil {
				lastErr = errors.Wrapf(err, "Can't delete transcription %s", id)
				cmdapp.Log.Error(lastErr)
			}
		}
	}
	return lastErr
}

func (c *cleanerImpl) orphanRecordings(ctx context.Context) error {
	recs, err := c.store.OrphanRecordings(ctx)
	if err != nil {
		return errors.Wrap(err, "Can't get orphan recordings")
	}
	cmdapp.Log.Infof("Got %d orphan recordings", len(recs))
	var lastErr error
	for _, r := range recs {
		if err := c.deleteRecording(ctx, r); err != nil {
			lastErr = err
			cmdapp.Log.Error(err)
		}
	}
	return lastErr
}

func (c *cleanerImpl) deleteRecording(ctx context.Context, r *persistence.Recording) error {
	if r.S3FileKey != "" {
		ok, err := c.storage.Exists(ctx, r.S3FileKey)
		if err != nil {
			return errors.Wrapf(err, "Can't check %s", r.S3FileKey)
		}
		if ok {
			if err := c.storage.Delete(ctx, r.S3FileKey); err != nil {
				return errors.Wrapf(err, "Can't delete %s", r.S3FileKey)
			}
			cmdapp.Log.Infof("Removed %s", r.S3FileKey)
		}
	}
	return c.store.DeleteRecording(ctx, r.ID)
}
