package llm

import (
	"strconv"
	"strings"

	"github.com/airenas/minutego/internal/pkg/api"
)

//TranscriptText formats entries as "speaker: text" lines
func TranscriptText(entries []api.DialogueEntry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Speaker + ": " + e.Text)
	}
	return sb.String()
}

//IndexedTranscriptText formats entries as "[i] speaker: text" lines for citations
func IndexedTranscriptText(entries []api.DialogueEntry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("[" + strconv.Itoa(i) + "] " + e.Speaker + ": " + e.Text)
	}
	return sb.String()
}

//TranscriptMessage passes the transcript as user message
func TranscriptMessage(entries []api.DialogueEntry) Message {
	return Message{Role: RoleUser, Content: "Here is the meeting transcript:\n" + TranscriptText(entries)}
}

//BasicMinutesMessages asks for a simple summary
func BasicMinutesMessages(entries []api.DialogueEntry) []Message {
	return []Message{
		{Role: RoleSystem, Content: "Provide a simple summary of the meeting."},
		TranscriptMessage(entries),
	}
}

//AIEditMessages asks to edit html minutes by user instructions
func AIEditMessages(minutes, instructions string, entries []api.DialogueEntry) []Message {
	return []Message{
		{Role: RoleSystem, Content: "You are a meeting minutes editor. You are given a transcript of a meeting and a summary " +
			"of that meeting. You are also given instructions for editing the summary. Edit the summary according to the " +
			"instructions. Do not return anything other than the edited summary. Your output should be in HTML format and " +
			"must not contain any code fences. Keep citations in square brackets in their original style."},
		TranscriptMessage(entries),
		{Role: RoleUser, Content: "Here is the summary of the meeting for which you will edit:" + minutes},
		{Role: RoleUser, Content: "Here are the instructions the user provided for editing the summary:" + instructions},
	}
}

//ChatSystemMessage opens the interactive conversation over the transcript
func ChatSystemMessage(entries []api.DialogueEntry) Message {
	return Message{Role: RoleSystem, Content: "You are given a transcript of a meeting. Your role is to respond to the " +
		"user's requests about the transcript. Your answers should only use the information contained in the transcript. " +
		"Add citations of the form [n] where n is the index of the transcript item, one number per brackets.\n" +
		"Here is the meeting transcript:\n" + IndexedTranscriptText(entries)}
}

//HallucinationMessages asks to review the previous answer
func HallucinationMessages() []Message {
	return []Message{{Role: RoleUser, Content: "Is your above output consistent with the instructions you were given, " +
		"or is there evidence of hallucination? Answer with json object " +
		`{"hallucinations": [{"hallucination_type": "factual_fabrication|nonsensical|contradiction|misleading|other", ` +
		`"text": "...", "reason": "..."}]}, use empty list if there are none.`}}
}
