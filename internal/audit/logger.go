package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/types"
)

type Context struct {
	RequestID string
	Origin    string
}

func newMessage(c Context, evtType EventType, disposition Disposition) Message {
	return Message{
		RequestID:     c.RequestID,
		Origin:        c.Origin,
		LogContext:    logContext,
		SchemaVersion: schemaVersion,
		Disposition:   disposition,
		Type:          evtType,
		Timestamp:     types.UnixMilli(time.Now().UTC().UnixMilli()),
	}
}

func LogSubmissionRejected(c Context, reason RejectReason, missingFields []string) {
	event := SubmissionRejected{}
	event.Message = newMessage(c, EvtSubmissionRejected, DispositionNeutral)

	event.Event.Reason = reason
	event.Event.MissingFields = missingFields
	if event.Event.MissingFields == nil {
		event.Event.MissingFields = []string{}
	}

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize SubmissionRejected event",
			"requestId",
			c.RequestID,
			"reason",
			reason,
			"missingFields",
			missingFields,
		)
		return
	}

	fmt.Println(string(evtStr))
}

func LogSubmissionMisconfigured(c Context, missingSettings []string) {
	event := SubmissionMisconfigured{}
	event.Message = newMessage(c, EvtSubmissionMisconfigured, DispositionBad)

	event.Event.MissingSettings = missingSettings

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize SubmissionMisconfigured event",
			"requestId",
			c.RequestID,
			"missingSettings",
			missingSettings,
		)
		return
	}

	fmt.Println(string(evtStr))
}

func LogSubmissionDispatched(c Context, messageID string) {
	event := SubmissionDispatched{}
	event.Message = newMessage(c, EvtSubmissionDispatched, DispositionGood)

	event.Event.MessageID = messageID

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize SubmissionDispatched event",
			"requestId",
			c.RequestID,
			"messageId",
			messageID,
		)
		return
	}

	fmt.Println(string(evtStr))
}

func LogSubmissionFailed(c Context, kind string) {
	event := SubmissionFailed{}
	event.Message = newMessage(c, EvtSubmissionFailed, DispositionBad)

	event.Event.Kind = kind

	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error(
			"could not serialize SubmissionFailed event",
			"requestId",
			c.RequestID,
			"kind",
			kind,
		)
		return
	}

	fmt.Println(string(evtStr))
}
