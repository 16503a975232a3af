package mongo

const (
	store              = "minute"
	userTable          = "user"
	recordingTable     = "recording"
	transcriptionTable = "transcription"
	minuteTable        = "minute"
	minuteVersionTable = "minuteVersion"
	chatTable          = "chat"
)

var indexData = []IndexData{
	newIndexData(userTable, "ID", true),
	newIndexData(recordingTable, "ID", true),
	newIndexData(recordingTable, "transcriptionID", false),
	newIndexData(transcriptionTable, "ID", true),
	newIndexData(transcriptionTable, "userID", false),
	newIndexData(minuteTable, "ID", true),
	newIndexData(minuteTable, "transcriptionID", false),
	newIndexData(minuteVersionTable, "ID", true),
	newIndexData(minuteVersionTable, "minuteID", false),
	newIndexData(chatTable, "ID", true),
	newIndexData(chatTable, "transcriptionID", false),
}
