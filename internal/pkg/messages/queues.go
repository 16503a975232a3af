package messages

//TaskType identifies the job kind, values follow the natural processing order
type TaskType int

const (
	// Transcription converts recording to dialogue entries
	Transcription TaskType = iota + 1
	// Minute generates the first minute version
	Minute
	// Edit applies AI edit instructions to a minute version
	Edit
	// Interactive answers a chat question over the transcript
	Interactive
)

var taskName = map[TaskType]string{Transcription: "TRANSCRIPTION", Minute: "MINUTE",
	Edit: "EDIT", Interactive: "INTERACTIVE"}

func (t TaskType) String() string {
	if res, ok := taskName[t]; ok {
		return res
	}
	return "UNKNOWN"
}

//Known returns true for defined task types
func (t TaskType) Known() bool {
	_, ok := taskName[t]
	return ok
}
