package mailer

import (
	"context"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/serviceegy/contact-api/internal/mailer")

//go:generate mockgen -destination ./mock/mock.go -package mock . Sender

// Outbound message handed to a Sender
type Message struct {
	From     string
	FromName string
	To       string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
	// Extra headers such as X-Mailer
	Headers map[string]string
}

// Mail transport capability.
//
// Send blocks until the relay accepts or refuses the message and returns the message id on success.
// Failures are *DispatchError values, so errors.Is(err, ErrAuth) and errors.Is(err, ErrConnection)
// can be used to tell them apart. Send never retries.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
