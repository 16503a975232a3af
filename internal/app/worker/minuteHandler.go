package worker

import (
	"context"
	"strings"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
	"github.com/pkg/errors"
)

type minuteHandler struct {
	minutes   MinuteStore
	generator Generator
	notifier  Notifier
}

func (h *minuteHandler) generate(ctx context.Context, versionID string) error {
	data, err := h.minutes.GetVersion(ctx, versionID)
	if err != nil {
		return &MinuteGenerationFailedError{Err: err}
	}
	html, hs, err := h.generator.Generate(ctx, data.Minute, data.Transcription.DialogueEntries)
	if err == nil {
		err = h.complete(ctx, versionID, html, hs)
	}
	if err != nil {
		h.fail(ctx, versionID, err)
		return &MinuteGenerationFailedError{Err: err}
	}
	return nil
}

func (h *minuteHandler) edit(ctx context.Context, targetID, sourceID string) error {
	if sourceID == "" {
		err := errors.Errorf("No source minute version for %s", targetID)
		h.fail(ctx, targetID, err)
		return &MinuteGenerationFailedError{Err: err}
	}
	source, err := h.minutes.GetVersion(ctx, sourceID)
	if err != nil {
		return &MinuteGenerationFailedError{Err: err}
	}
	target, err := h.minutes.GetVersion(ctx, targetID)
	if err != nil {
		return &MinuteGenerationFailedError{Err: err}
	}
	if strings.TrimSpace(target.Version.AIEditInstructions) == "" {
		return &MinuteGenerationFailedError{Err: errors.New("Target minute does not have AI edit instructions")}
	}
	html, hs, err := h.generator.Edit(ctx, source.Version.HTMLContent, target.Version.AIEditInstructions,
		source.Transcription.DialogueEntries)
	if err == nil {
		err = h.complete(ctx, targetID, html, hs)
	}
	if err != nil {
		h.fail(ctx, targetID, err)
		return &MinuteGenerationFailedError{Err: err}
	}
	return nil
}

func (h *minuteHandler) complete(ctx context.Context, id, html string, hs []api.Hallucination) error {
	if hs == nil {
		hs = []api.Hallucination{}
	}
	err := h.minutes.UpdateVersion(ctx, id, &persistence.MinuteVersionUpdate{Status: status.Completed, HTMLContent: html,
		Hallucinations: hs})
	if err != nil {
		return err
	}
	notify(ctx, h.notifier, api.EntityMinuteVersion, id, status.Completed, "")
	return nil
}

func (h *minuteHandler) fail(ctx context.Context, id string, cause error) {
	cmdapp.Log.Error(errors.Wrapf(cause, "Minute version %s failed", id))
	if err := h.minutes.UpdateVersion(ctx, id, &persistence.MinuteVersionUpdate{Status: status.Failed, Error: cause.Error()}); err != nil {
		cmdapp.Log.Error(errors.Wrapf(err, "Can't update minute version %s status", id))
		return
	}
	notify(ctx, h.notifier, api.EntityMinuteVersion, id, status.Failed, cause.Error())
}
