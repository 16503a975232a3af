package api

import "time"

//Hallucination types reported by the hallucination check
const (
	HallucinationFactualFabrication = "factual_fabrication"
	HallucinationNonsensical        = "nonsensical"
	HallucinationContradiction      = "contradiction"
	HallucinationMisleading         = "misleading"
	HallucinationOther              = "other"
)

type (
	// DialogueEntry is one speaker turn of a transcript
	DialogueEntry struct {
		Speaker   string  `json:"speaker" bson:"speaker"`
		Text      string  `json:"text" bson:"text"`
		StartTime float64 `json:"start_time" bson:"startTime"`
		EndTime   float64 `json:"end_time" bson:"endTime"`
	}

	// Hallucination is a span of generated text not supported by the transcript
	Hallucination struct {
		Type   string `json:"hallucination_type" bson:"type"`
		Text   string `json:"hallucination_text" bson:"text,omitempty"`
		Reason string `json:"hallucination_reason" bson:"reason,omitempty"`
	}

	// StatusEvent is published when a job reaches a terminal status
	StatusEvent struct {
		Entity string    `json:"entity"`
		ID     string    `json:"id"`
		Status string    `json:"status"`
		Error  string    `json:"error,omitempty"`
		Time   time.Time `json:"time"`
	}
)

//Event entity names
const (
	EntityTranscription = "transcription"
	EntityMinuteVersion = "minute_version"
	EntityChat          = "chat"
)
