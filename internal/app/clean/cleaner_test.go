package clean

import (
	"context"
	"testing"
	"time"

	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) FailStale(ctx context.Context, before time.Time, msg string) (int64, error) {
	args := m.Called(before, msg)
	return int64(args.Int(0)), args.Error(1)
}

func (m *storeMock) UsersWithRetention(ctx context.Context) ([]*persistence.User, error) {
	args := m.Called()
	res, _ := args.Get(0).([]*persistence.User)
	return res, args.Error(1)
}

func (m *storeMock) ExpiredTranscriptions(ctx context.Context, userID string, before time.Time) ([]string, error) {
	args := m.Called(userID, before)
	res, _ := args.Get(0).([]string)
	return res, args.Error(1)
}

func (m *storeMock) DeleteTranscription(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

func (m *storeMock) OrphanRecordings(ctx context.Context) ([]*persistence.Recording, error) {
	args := m.Called()
	res, _ := args.Get(0).([]*persistence.Recording)
	return res, args.Error(1)
}

func (m *storeMock) DeleteRecording(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

type objectStorageMock struct {
	mock.Mock
}

func (m *objectStorageMock) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *objectStorageMock) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestCleaner(t *testing.T) (*cleanerImpl, *storeMock, *objectStorageMock) {
	t.Helper()
	st, os := &storeMock{}, &objectStorageMock{}
	c, err := newCleanerImpl(st, os, 24*time.Hour)
	require.Nil(t, err)
	c.now = func() time.Time { return testNow }
	return c, st, os
}

func TestNewCleaner(t *testing.T) {
	_, err := newCleanerImpl(nil, &objectStorageMock{}, time.Hour)
	assert.NotNil(t, err)
	_, err = newCleanerImpl(&storeMock{}, nil, time.Hour)
	assert.NotNil(t, err)
}

func TestRun(t *testing.T) {
	c, st, os := newTestCleaner(t)
	days := 30
	st.On("FailStale", testNow.Add(-24*time.Hour), StaleError).Return(2, nil)
	st.On("UsersWithRetention").Return([]*persistence.User{{ID: "u1", DataRetentionDays: &days}, {ID: "u2"}}, nil)
	st.On("ExpiredTranscriptions", "u1", testNow.AddDate(0, 0, -30)).Return([]string{"t1", "t2"}, nil)
	st.On("DeleteTranscription", mock.Anything).Return(nil)
	st.On("OrphanRecordings").Return([]*persistence.Recording{{ID: "r1", S3FileKey: "k1"}, {ID: "r2", S3FileKey: "k2"},
		{ID: "r3"}}, nil)
	os.On("Exists", "k1").Return(true, nil)
	os.On("Exists", "k2").Return(false, nil)
	os.On("Delete", "k1").Return(nil)
	st.On("DeleteRecording", mock.Anything).Return(nil)

	require.Nil(t, c.Run(context.Background()))

	st.AssertCalled(t, "DeleteTranscription", "t1")
	st.AssertCalled(t, "DeleteTranscription", "t2")
	st.AssertNotCalled(t, "ExpiredTranscriptions", "u2", mock.Anything)
	os.AssertNumberOfCalls(t, "Delete", 1)
	st.AssertNumberOfCalls(t, "DeleteRecording", 3)
}

func TestRun_StorageFailKeepsRecord(t *testing.T) {
	c, st, os := newTestCleaner(t)
	st.On("FailStale", mock.Anything, mock.Anything).Return(0, nil)
	st.On("UsersWithRetention").Return(nil, nil)
	st.On("OrphanRecordings").Return([]*persistence.Recording{{ID: "r1", S3FileKey: "k1"}}, nil)
	os.On("Exists", "k1").Return(true, nil)
	os.On("Delete", "k1").Return(errors.New("olia"))

	assert.Nil(t, c.Run(context.Background()))
	st.AssertNotCalled(t, "DeleteRecording", mock.Anything)
}

func TestRun_AllFail(t *testing.T) {
	c, st, _ := newTestCleaner(t)
	st.On("FailStale", mock.Anything, mock.Anything).Return(0, errors.New("olia"))
	st.On("UsersWithRetention").Return(nil, errors.New("olia"))
	st.On("OrphanRecordings").Return(nil, errors.New("olia"))

	assert.NotNil(t, c.Run(context.Background()))
}

func TestRun_ContinuesOnFailure(t *testing.T) {
	c, st, _ := newTestCleaner(t)
	st.On("FailStale", mock.Anything, mock.Anything).Return(0, errors.New("olia"))
	st.On("UsersWithRetention").Return(nil, nil)
	st.On("OrphanRecordings").Return(nil, nil)

	assert.Nil(t, c.Run(context.Background()))
	st.AssertCalled(t, "OrphanRecordings")
}

func TestClean(t *testing.T) {
	c, st, _ := newTestCleaner(t)
	st.On("DeleteTranscription", "t1").Return(nil)
	assert.Nil(t, c.Clean(context.Background(), "t1"))
	st.AssertExpectations(t)
}
