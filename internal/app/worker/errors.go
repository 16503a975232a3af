package worker

//TranscriptionFailedError is a handled transcription failure, the message is completed
type TranscriptionFailedError struct {
	Err error
}

func (e *TranscriptionFailedError) Error() string {
	return "transcription failed: " + e.Err.Error()
}

//Unwrap returns the cause
func (e *TranscriptionFailedError) Unwrap() error {
	return e.Err
}

//MinuteGenerationFailedError is a handled minute generation or edit failure
type MinuteGenerationFailedError struct {
	Err error
}

func (e *MinuteGenerationFailedError) Error() string {
	return "minute generation failed: " + e.Err.Error()
}

//Unwrap returns the cause
func (e *MinuteGenerationFailedError) Unwrap() error {
	return e.Err
}

//InteractionFailedError is a handled chat failure
type InteractionFailedError struct {
	Err error
}

func (e *InteractionFailedError) Error() string {
	return "interaction failed: " + e.Err.Error()
}

//Unwrap returns the cause
func (e *InteractionFailedError) Unwrap() error {
	return e.Err
}
