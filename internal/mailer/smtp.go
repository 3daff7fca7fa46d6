package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"

	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/logger"
)

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS from the first byte (SMTPS). Otherwise STARTTLS is used when the server offers it.
	ImplicitTLS bool
	// Skip certificate verification for relays with self-signed or mismatched certificates
	InsecureSkipVerify bool
}

// Options for the relay described by cfg
func OptionsFromConfig(cfg *config.SMTPConfig) SMTPOptions {
	return SMTPOptions{
		Host:               cfg.Host,
		Port:               cfg.Port,
		Username:           cfg.User,
		Password:           cfg.Password,
		ImplicitTLS:        cfg.ImplicitTLS(),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
}

// Sender backed by an SMTP relay. A new session is opened for every message.
type SMTPSender struct {
	dialer *gomail.Dialer
	domain string
	newID  func() string
}

// Ensure `SMTPSender` implements [Sender]
var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(opts SMTPOptions) *SMTPSender {
	dialer := gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password)
	dialer.SSL = opts.ImplicitTLS
	dialer.TLSConfig = &tls.Config{
		ServerName:         opts.Host,
		InsecureSkipVerify: opts.InsecureSkipVerify, // #nosec G402
	}

	return &SMTPSender{
		dialer: dialer,
		domain: messageIDDomain(opts.Username, opts.Host),
		newID:  func() string { return uuid.New().String() },
	}
}

// Domain part of generated message ids: the user's mail domain, else the relay host
func messageIDDomain(username string, host string) string {
	if at := strings.LastIndex(username, "@"); at >= 0 && at < len(username)-1 {
		return username[at+1:]
	}
	return host
}

func (s *SMTPSender) messageID() string {
	return fmt.Sprintf("<%s@%s>", s.newID(), s.domain)
}

func (s *SMTPSender) compose(msg Message, id string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", msg.From, msg.FromName)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)

	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.SetHeader(k, msg.Headers[k])
	}

	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	return m
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	ctx, span := tracer.Start(ctx, "SMTPSender.Send", trace.WithAttributes(
		attribute.String("smtp.host", s.dialer.Host),
		attribute.Int("smtp.port", s.dialer.Port),
		attribute.Bool("smtp.implicit_tls", s.dialer.SSL),
	))
	defer span.End()

	// the session itself cannot be cancelled once it is open
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "context done before dialing")
		return "", &DispatchError{Kind: KindOther, Err: err}
	}

	id := s.messageID()
	m := s.compose(msg, id)

	span.AddEvent("dialing")
	closer, err := s.dialer.Dial()
	if err != nil {
		err = wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open smtp session")
		return "", err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			logger.Logger.DebugContext(ctx, "failed to close smtp session", logger.Err(cerr))
		}
	}()

	span.AddEvent("sending")
	if err = gomail.Send(closer, m); err != nil {
		err = wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "relay refused message")
		return "", err
	}

	span.SetAttributes(attribute.String("smtp.message_id", id))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return id, nil
}

// Opens and authenticates a session without sending anything
func (s *SMTPSender) Verify(ctx context.Context) error {
	_, span := tracer.Start(ctx, "SMTPSender.Verify")
	defer span.End()

	closer, err := s.dialer.Dial()
	if err != nil {
		err = wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open smtp session")
		return err
	}

	if err = closer.Close(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to close smtp session")
		return wrap(err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return nil
}
