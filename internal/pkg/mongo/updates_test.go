package mongo

import (
	"testing"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestTranscriptionSet(t *testing.T) {
	entries := []api.DialogueEntry{{Speaker: "Unknown speaker 0", Text: "olia"}}
	assert.Equal(t, bson.M{"$set": bson.M{"updated": testNow, "status": "completed", "dialogueEntries": entries}},
		transcriptionSet(&persistence.TranscriptionUpdate{Status: status.Completed, DialogueEntries: entries}, testNow))
	assert.Equal(t, bson.M{"$set": bson.M{"updated": testNow, "status": "in_progress"}},
		transcriptionSet(&persistence.TranscriptionUpdate{Status: status.InProgress}, testNow))
}

func TestMinuteVersionSet(t *testing.T) {
	assert.Equal(t, bson.M{"$set": bson.M{"updated": testNow, "status": "completed", "htmlContent": "<p>a</p>",
		"hallucinations": []api.Hallucination{}}},
		minuteVersionSet(&persistence.MinuteVersionUpdate{Status: status.Completed, HTMLContent: "<p>a</p>",
			Hallucinations: []api.Hallucination{}}, testNow))
	assert.Equal(t, bson.M{"$set": bson.M{"updated": testNow, "status": "failed", "error": "err"}},
		minuteVersionSet(&persistence.MinuteVersionUpdate{Status: status.Failed, Error: "err"}, testNow))
}

func TestChatSet(t *testing.T) {
	assert.Equal(t, bson.M{"$set": bson.M{"updated": testNow, "status": "completed", "assistantContent": "ans"}},
		chatSet(&persistence.ChatUpdate{Status: status.Completed, AssistantContent: "ans"}, testNow))
}

func TestOnlyVersion(t *testing.T) {
	_, err := onlyVersion("m", nil)
	assert.True(t, errors.Is(err, persistence.ErrNotFound))
	_, err = onlyVersion("m", []*persistence.MinuteVersion{{ID: "1"}, {ID: "2"}})
	assert.NotNil(t, err)
	v, err := onlyVersion("m", []*persistence.MinuteVersion{{ID: "1"}})
	assert.Nil(t, err)
	assert.Equal(t, "1", v.ID)
}

func TestStaleFilter(t *testing.T) {
	assert.Equal(t, bson.M{"status": "in_progress", "created": bson.M{"$lt": testNow}}, staleFilter(testNow))
}
