package minutes

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/llm"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/pkg/errors"
)

//ChatResponder answers user questions about a transcript
type ChatResponder struct {
	bots ChatBotProvider
}

//NewChatResponder creates responder
func NewChatResponder(bots ChatBotProvider) (*ChatResponder, error) {
	if bots == nil {
		return nil, errors.New("No chatbot provider")
	}
	return &ChatResponder{bots: bots}, nil
}

//Respond answers the last chat using earlier chats as history
func (r *ChatResponder) Respond(ctx context.Context, entries []api.DialogueEntry, chats []*persistence.Chat) (string, error) {
	return r.bots.New(llm.Best).Chat(ctx, ChatMessages(entries, chats))
}

//ChatMessages builds the conversation: system message with the transcript, then user and assistant turns
func ChatMessages(entries []api.DialogueEntry, chats []*persistence.Chat) []llm.Message {
	res := []llm.Message{llm.ChatSystemMessage(entries)}
	for _, c := range chats {
		res = append(res, llm.Message{Role: llm.RoleUser, Content: c.UserContent})
		if c.AssistantContent != "" {
			res = append(res, llm.Message{Role: llm.RoleAssistant, Content: c.AssistantContent})
		}
	}
	return res
}
