package audit

import (
	"github.com/serviceegy/contact-api/internal/types"
)

var schemaVersion = "0.1.0"
var logContext = "audit"

type Disposition string

const (
	DispositionNeutral Disposition = "neutral"
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
)

type EventType string

const (
	EvtSubmissionRejected      EventType = "submission_rejected"
	EvtSubmissionMisconfigured EventType = "submission_misconfigured"
	EvtSubmissionDispatched    EventType = "submission_dispatched"
	EvtSubmissionFailed        EventType = "submission_failed"
)

type RejectReason string

const (
	ReasonUnparsable    RejectReason = "unparsable"
	ReasonMissingFields RejectReason = "missing_fields"
)

// Envelope shared by every audit event. Personal data from the form never appears here.
type Message struct {
	RequestID     string      `json:"request_id"`
	Origin        string      `json:"origin,omitempty"`
	LogContext    string      `json:"log_context" validate:"required"`
	SchemaVersion string      `json:"version"     validate:"required"`
	Disposition   Disposition `json:"disposition" validate:"required"`
	Type          EventType   `json:"event_type"  validate:"required"`

	Timestamp types.UnixMilli `json:"timestamp" validate:"required"`
}

type SubmissionRejectedEvent struct {
	Reason        RejectReason `json:"reason"         validate:"required"`
	MissingFields []string     `json:"missing_fields"`
}

type SubmissionRejected struct {
	Event SubmissionRejectedEvent `json:"event" validate:"required"`
	Message
}

type SubmissionMisconfiguredEvent struct {
	MissingSettings []string `json:"missing_settings" validate:"required"`
}

type SubmissionMisconfigured struct {
	Event SubmissionMisconfiguredEvent `json:"event" validate:"required"`
	Message
}

type SubmissionDispatchedEvent struct {
	MessageID string `json:"message_id" validate:"required"`
}

type SubmissionDispatched struct {
	Event SubmissionDispatchedEvent `json:"event" validate:"required"`
	Message
}

type SubmissionFailedEvent struct {
	// auth, connection or other
	Kind string `json:"kind" validate:"required"`
}

type SubmissionFailed struct {
	Event SubmissionFailedEvent `json:"event" validate:"required"`
	Message
}
