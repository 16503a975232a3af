package mongo

import (
	"time"

	"github.com/airenas/minutego/internal/pkg/persistence"
	"github.com/airenas/minutego/internal/pkg/status"
	"go.mongodb.org/mongo-driver/bson"
)

func transcriptionSet(upd *persistence.TranscriptionUpdate, now time.Time) bson.M {
	res := bson.M{"updated": now}
	addStatus(res, upd.Status, upd.Error)
	if upd.DialogueEntries != nil {
		res["dialogueEntries"] = upd.DialogueEntries
	}
	return bson.M{"$set": res}
}

func minuteVersionSet(upd *persistence.MinuteVersionUpdate, now time.Time) bson.M {
	res := bson.M{"updated": now}
	addStatus(res, upd.Status, upd.Error)
	if upd.HTMLContent != "" {
		res["htmlContent"] = upd.HTMLContent
	}
	if upd.Hallucinations != nil {
		res["hallucinations"] = upd.Hallucinations
	}
	return bson.M{"$set": res}
}

func chatSet(upd *persistence.ChatUpdate, now time.Time) bson.M {
	res := bson.M{"updated": now}
	addStatus(res, upd.Status, upd.Error)
	if upd.AssistantContent != "" {
		res["assistantContent"] = upd.AssistantContent
	}
	return bson.M{"$set": res}
}

func addStatus(m bson.M, st status.Status, err string) {
	if st != 0 {
		m["status"] = status.Name(st)
	}
	if err != "" {
		m["error"] = err
	}
}

func idFilter(id string) bson.M {
	return bson.M{"ID": id}
}
