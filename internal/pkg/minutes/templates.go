package minutes

import (
	"context"
	"strings"
	"time"

	"github.com/airenas/minutego/internal/pkg/api"
	"github.com/airenas/minutego/internal/pkg/llm"
	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/pkg/errors"
)

//Template generates markdown minutes of a meeting
type Template interface {
	Name() string
	Generate(ctx context.Context, bots ChatBotProvider, minute *persistence.Minute,
		entries []api.DialogueEntry) (string, []api.Hallucination, error)
}

//promptTemplate asks the best model with one prompt, then optionally adds citations with the fast one
type promptTemplate struct {
	name      string
	citations bool
	prompt    func(entries []api.DialogueEntry, agenda string) []llm.Message
}

func (t *promptTemplate) Name() string {
	return t.name
}

func (t *promptTemplate) Generate(ctx context.Context, bots ChatBotProvider, minute *persistence.Minute,
	entries []api.DialogueEntry) (string, []api.Hallucination, error) {
	bot := bots.New(llm.Best)
	res, err := bot.Chat(ctx, t.prompt(entries, minute.Agenda))
	if err != nil {
		return "", nil, errors.Wrapf(err, "Can't generate minutes by %s", t.name)
	}
	hs, err := bot.HallucinationCheck(ctx)
	if err != nil {
		return "", nil, err
	}
	if t.citations {
		res, err = bots.New(llm.Fast).Chat(ctx, citationMessages(res, entries))
		if err != nil {
			return "", nil, errors.Wrap(err, "Can't add citations")
		}
	}
	return res, hs, nil
}

//Templates keeps registered templates by name
type Templates struct {
	items map[string]Template
}

//NewTemplates returns registry with the default templates
func NewTemplates() *Templates {
	res := &Templates{items: map[string]Template{}}
	res.Register(&promptTemplate{name: persistence.DefaultTemplate, citations: true, prompt: generalPrompt(time.Now)})
	res.Register(&promptTemplate{name: "Short 'n' Sweet", prompt: shortPrompt})
	return res
}

//Register adds or replaces the template
func (t *Templates) Register(tmpl Template) {
	t.items[tmpl.Name()] = tmpl
}

//Get returns template by name
func (t *Templates) Get(name string) (Template, error) {
	res, ok := t.items[name]
	if !ok {
		return nil, errors.Errorf("Template %s not found", name)
	}
	return res, nil
}

func generalPrompt(now func() time.Time) func(entries []api.DialogueEntry, agenda string) []llm.Message {
	return func(entries []api.DialogueEntry, agenda string) []llm.Message {
		var sb strings.Builder
		sb.WriteString("You are an expert meeting minutes writer. Create clear, comprehensive and well-structured " +
			"meeting minutes. Use British English spelling and conventions. Stay objective, focus on outcomes and decisions.\n\n" +
			"Structure the minutes with these sections, omit any that are not relevant:\n" +
			"1. Meeting Overview\n   - Date: " + now().In(london()).Format("02 January 2006") + "\n" +
			"   - Title derived from the content discussed\n" +
			"2. Attendees, only if explicitly named in the transcript\n" +
			"3. Executive Summary\n")
		sb.WriteString("4. Discussion Points\n")
		if items := agendaItems(agenda); len(items) > 0 {
			sb.WriteString("Use these agenda items as headings of the discussion points, do not add other items:\n - ")
			sb.WriteString(strings.Join(items, "\n - "))
			sb.WriteString("\n")
		} else {
			sb.WriteString("   - Present in chronological order, group related topics under clear subheadings\n")
		}
		sb.WriteString("5. Key Decisions\n6. Action Items\n7. Next Steps")
		return []llm.Message{{Role: llm.RoleSystem, Content: sb.String()}, llm.TranscriptMessage(entries)}
	}
}

func shortPrompt(entries []api.DialogueEntry, agenda string) []llm.Message {
	return []llm.Message{{Role: llm.RoleSystem, Content: "You are an expert meeting summary writer. Generate a short " +
		"and concise summary of the meeting with a bulleted list of action items. Use British English spelling. " +
		"Only include information that is explicitly mentioned in the transcript."}, llm.TranscriptMessage(entries)}
}

func citationMessages(draft string, entries []api.DialogueEntry) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: "Add citations to the minutes document produced from the transcript of a " +
			"meeting without changing the document itself. Return only the document with citations. Each citation " +
			"is of the form [n] where n is the index of the transcript item, use [80][81] not [80, 81]."},
		{Role: llm.RoleUser, Content: "Here is the meeting transcript:\n" + llm.IndexedTranscriptText(entries) +
			"\n\nAnd here is the minutes document which you will add citations to:\n" + draft},
	}
}

func agendaItems(agenda string) []string {
	var res []string
	for _, s := range strings.Split(agenda, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func london() *time.Location {
	l, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}
	return l
}
