package worker

import (
	"context"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
	"github.com/pkg/errors"
)

type chatHandler struct {
	chats          ChatStore
	transcriptions TranscriptionStore
	responder      ChatResponder
	notifier       Notifier
}

func (h *chatHandler) process(ctx context.Context, chatID string) error {
	if err := h.run(ctx, chatID); err != nil {
		msg := "Chat interaction failed: " + err.Error()
		cmdapp.Log.Error(msg)
		if err := h.chats.Update(ctx, chatID, &persistence.ChatUpdate{Status: status.Failed, Error: msg}); err != nil {
			cmdapp.Log.Error(errors.Wrapf(err, "Can't update chat %s status. Maybe it doesn't exist?", chatID))
		} else {
			notify(ctx, h.notifier, api.EntityChat, chatID, status.Failed, msg)
		}
		return &InteractionFailedError{Err: err}
	}
	return nil
}

func (h *chatHandler) run(ctx context.Context, chatID string) error {
	chat, err := h.chats.Get(ctx, chatID)
	if err != nil {
		return errors.Wrapf(err, "Chat id %s not found", chatID)
	}
	chats, err := h.chats.List(ctx, chat.TranscriptionID)
	if err != nil {
		return err
	}
	tr, err := h.transcriptions.Get(ctx, chat.TranscriptionID)
	if err != nil {
		return err
	}
	res, err := h.responder.Respond(ctx, tr.DialogueEntries, chats)
	if err != nil {
		return err
	}
	if err := h.chats.Update(ctx, chatID, &persistence.ChatUpdate{Status: status.Completed, AssistantContent: res}); err != nil {
		return err
	}
	notify(ctx, h.notifier, api.EntityChat, chatID, status.Completed, "")
	return nil
}
