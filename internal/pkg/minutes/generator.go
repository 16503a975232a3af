package minutes

import (
	"context"
	"strings"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/cmdapp"
	"github.com/airenas/minutego/internal/pkg/config"
	"github.com/airenas/minutego/internal/pkg/llm"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/spelling"
	"github.com/pkg/errors"
)

//MeetingType is a meeting length class
type MeetingType int

const (
	// TooShort meetings get fallback text with the transcript
	TooShort MeetingType = iota
	// Short meetings get a basic summary
	Short
	// Standard meetings are generated by the minute template
	Standard
)

func (t MeetingType) String() string {
	switch t {
	case TooShort:
		return "too_short"
	case Short:
		return "short"
	}
	return "standard"
}

//FallbackText starts the content of too short meeting minutes
const FallbackText = "Short meeting detected. Minutes not available.\n Please try again with a longer meeting. Transcript is: "

//ChatBotProvider creates chatbots with empty history
type ChatBotProvider interface {
	New(kind llm.Kind) *llm.ChatBot
}

//Generator creates and edits minutes
type Generator struct {
	bots            ChatBotProvider
	templates       *Templates
	minWords        int
	minWordsForFull int
}

//NewGenerator creates generator, thresholds are checked in the configured order
func NewGenerator(bots ChatBotProvider, templates *Templates, s config.MinutesSettings) (*Generator, error) {
	if bots == nil {
		return nil, errors.New("No chatbot provider")
	}
	if templates == nil {
		return nil, errors.New("No templates")
	}
	return &Generator{bots: bots, templates: templates, minWords: s.MinWordCountForSummary,
		minWordsForFull: s.MinWordCountForFullSummary}, nil
}

//WordCount returns whitespace separated word count of all entries
func WordCount(entries []api.DialogueEntry) int {
	res := 0
	for _, e := range entries {
		res += len(strings.Fields(e.Text))
	}
	return res
}

//PredictMeeting classifies meeting by word count
func PredictMeeting(entries []api.DialogueEntry, minWords, minWordsForFull int) MeetingType {
	wc := WordCount(entries)
	if wc < minWords {
		return TooShort
	}
	if wc < minWordsForFull {
		return Short
	}
	return Standard
}

//Generate returns html minutes and found hallucinations
func (g *Generator) Generate(ctx context.Context, minute *persistence.Minute, entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	mt := PredictMeeting(entries, g.minWords, g.minWordsForFull)
	cmdapp.Log.Infof("Minute %s: %s meeting", minute.ID, mt)
	var res string
	var hs []api.Hallucination
	var err error
	switch mt {
	case TooShort:
		res, hs = FallbackText+llm.TranscriptText(entries), []api.Hallucination{}
	case Short:
		res, hs, err = g.basic(ctx, entries)
	default:
		res, hs, err = g.full(ctx, minute, entries)
	}
	if err != nil {
		return "", nil, err
	}
	html, err := ToHTML(res)
	if err != nil {
		return "", nil, err
	}
	return html, hs, nil
}

func (g *Generator) basic(ctx context.Context, entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	bot := g.bots.New(llm.Fast)
	res, err := bot.Chat(ctx, llm.BasicMinutesMessages(entries))
	if err != nil {
		return "", nil, errors.Wrap(err, "Can't generate basic minutes")
	}
	hs, err := bot.HallucinationCheck(ctx)
	if err != nil {
		return "", nil, err
	}
	return res, hs, nil
}

func (g *Generator) full(ctx context.Context, minute *persistence.Minute, entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	t, err := g.templates.Get(minute.TemplateName)
	if err != nil {
		return "", nil, err
	}
	res, hs, err := t.Generate(ctx, g.bots, minute, entries)
	if err != nil {
		return "", nil, err
	}
	return spelling.ToBritish(res), hs, nil
}

//Edit applies user instructions to html minutes
func (g *Generator) Edit(ctx context.Context, minutes, instructions string, entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	bot := g.bots.New(llm.Best)
	res, err := bot.Chat(ctx, llm.AIEditMessages(minutes, instructions, entries))
	if err != nil {
		return "", nil, errors.Wrap(err, "Can't edit minutes")
	}
	res = strings.TrimSuffix(strings.TrimPrefix(res, "```html"), "```")
	hs, err := bot.HallucinationCheck(ctx)
	if err != nil {
		return "", nil, err
	}
	return res, hs, nil
}
