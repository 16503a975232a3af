package mongo

import (
	"context"
	"time"

	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//ChatStore reads and updates chats
type ChatStore struct {
	SessionProvider *SessionProvider
	now             func() time.Time
}

//NewChatStore creates ChatStore instance
func NewChatStore(sessionProvider *SessionProvider) (*ChatStore, error) {
	return &ChatStore{SessionProvider: sessionProvider, now: time.Now}, nil
}

//Get loads chat
func (cs *ChatStore) Get(ctx context.Context, id string) (*persistence.Chat, error) {
	res := &persistence.Chat{}
	if err := findOne(ctx, cs.SessionProvider, chatTable, idFilter(id), res); err != nil {
		return nil, err
	}
	return res, nil
}

//List returns transcription chats, oldest update first
func (cs *ChatStore) List(ctx context.Context, transcriptionID string) ([]*persistence.Chat, error) {
	var res []*persistence.Chat
	err := findAll(ctx, cs.SessionProvider, chatTable, bson.M{"transcriptionID": transcriptionID},
		options.Find().SetSort(bson.D{{Key: "updated", Value: 1}}), &res)
	return res, err
}

//Update writes not empty chat fields
func (cs *ChatStore) Update(ctx context.Context, id string, upd *persistence.ChatUpdate) error {
	cmdapp.Log.Infof("Saving chat %s: %s", id, upd.Status)
	return updateOne(ctx, cs.SessionProvider, chatTable, id, chatSet(upd, cs.now()))
}
