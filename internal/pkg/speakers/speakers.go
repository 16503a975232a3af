package speakers

import (
	"context"
	"strconv"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/llm"
	"github.com/pkg/errors"
)

//UnknownPrefix is a speaker label prefix before name prediction
const UnknownPrefix = "Unknown speaker "

//Group merges consecutive entries of the same speaker
func Group(entries []api.DialogueEntry) []api.DialogueEntry {
	res := make([]api.DialogueEntry, 0, len(entries))
	for _, e := range entries {
		if l := len(res); l > 0 && res[l-1].Speaker == e.Speaker {
			res[l-1].Text += " " + e.Text
			res[l-1].EndTime = e.EndTime
			continue
		}
		res = append(res, e)
	}
	return res
}

//Normalize renames speakers to "0", "1", ... by first appearance
func Normalize(entries []api.DialogueEntry) []api.DialogueEntry {
	names := map[string]string{}
	res := make([]api.DialogueEntry, len(entries))
	for i, e := range entries {
		n, ok := names[e.Speaker]
		if !ok {
			n = strconv.Itoa(len(names))
			names[e.Speaker] = n
		}
		e.Speaker = n
		res[i] = e
	}
	return res
}

//Label adds unknown speaker prefix
func Label(entries []api.DialogueEntry) []api.DialogueEntry {
	res := make([]api.DialogueEntry, len(entries))
	for i, e := range entries {
		e.Speaker = UnknownPrefix + e.Speaker
		res[i] = e
	}
	return res
}

//Predictor guesses speaker names
type Predictor interface {
	Predict(ctx context.Context, entries []api.DialogueEntry) (map[string]string, error)
}

//Processor groups, relabels speakers and tries to name them
type Processor struct {
	predictor Predictor
}

//NewProcessor creates speaker processor
func NewProcessor(predictor Predictor) *Processor {
	return &Processor{predictor: predictor}
}

//Identify returns processed entries, prediction failure keeps unknown speaker labels
func (p *Processor) Identify(ctx context.Context, entries []api.DialogueEntry) []api.DialogueEntry {
	labelled := Label(Normalize(Group(entries)))
	if p.predictor == nil || len(labelled) == 0 {
		return labelled
	}
	names, err := p.predictor.Predict(ctx, labelled)
	if err != nil {
		cmdapp.Log.Errorf("Error predicting speaker names: %v", err)
		return labelled
	}
	res := make([]api.DialogueEntry, len(labelled))
	for i, e := range labelled {
		if n, ok := names[e.Speaker]; ok && n != "" {
			e.Speaker = n
		}
		res[i] = e
	}
	return res
}

//ChatBotProvider returns a fresh chatbot
type ChatBotProvider interface {
	New(kind llm.Kind) *llm.ChatBot
}

//LLMPredictor asks the fast model for speaker names
type LLMPredictor struct {
	bots ChatBotProvider
}

//NewLLMPredictor creates predictor
func NewLLMPredictor(bots ChatBotProvider) *LLMPredictor {
	return &LLMPredictor{bots: bots}
}

type prediction struct {
	OriginalSpeaker string  `json:"original_speaker"`
	PredictedName   string  `json:"predicted_name"`
	Confidence      float64 `json:"confidence"`
}

type predictionOutput struct {
	Predictions []prediction `json:"predictions"`
}

//Predict maps original speaker labels to predicted names
func (p *LLMPredictor) Predict(ctx context.Context, entries []api.DialogueEntry) (map[string]string, error) {
	var out predictionOutput
	if err := p.bots.New(llm.Fast).StructuredChat(ctx, predictionMessages(entries), &out); err != nil {
		return nil, errors.Wrap(err, "Can't predict speakers")
	}
	res := map[string]string{}
	for _, pr := range out.Predictions {
		res[pr.OriginalSpeaker] = pr.PredictedName
	}
	return res, nil
}

func predictionMessages(entries []api.DialogueEntry) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: "You are an expert at analysing conversation transcripts and identifying speakers. " +
			"Based on the conversation content, identify the names of the speakers. Only make high-confidence " +
			"identifications, otherwise keep the original speaker label. Do not use any names that are not in the transcript. " +
			`Answer with json object {"predictions": [{"original_speaker": "...", "predicted_name": "...", "confidence": 0.0}]}.`},
		{Role: llm.RoleUser, Content: "Please analyse this conversation and suggest real names for speakers labelled as '" +
			UnknownPrefix + "N'.\n\nConversation:\n" + llm.TranscriptText(entries)},
	}
}
