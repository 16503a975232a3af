package status

//Status represents job status of transcription, minute version or chat
type Status int

const (
	// AwaitingStart is set by API on creation
	AwaitingStart Status = iota + 1
	// InProgress value
	InProgress
	// Completed value
	Completed
	// Failed value
	Failed
)

var (
	statusName = map[Status]string{AwaitingStart: "awaiting_start", InProgress: "in_progress",
		Completed: "completed", Failed: "failed"}
	nameStatus = map[string]Status{"awaiting_start": AwaitingStart, "in_progress": InProgress,
		"completed": Completed, "failed": Failed}
)

//Name returns the stored name of the status
func Name(st Status) string {
	return statusName[st]
}

//From parses status name, returns 0 for unknown name
func From(st string) Status {
	return nameStatus[st]
}

//IsFinal returns true for COMPLETED and FAILED
func IsFinal(st Status) bool {
	return st == Completed || st == Failed
}

func (st Status) String() string {
	return Name(st)
}
