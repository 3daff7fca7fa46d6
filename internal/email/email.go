package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/serviceegy/contact-api/internal/types"
)

var tracer = otel.Tracer("github.com/serviceegy/contact-api/internal/email")

const (
	SubjectPrefix = "طلب صيانة جديد من "
	// Egyptian country code replacing the trunk prefix in WhatsApp links
	countryCode = "20"
)

//go:embed templates
var templateFS embed.FS

var (
	textTemplate = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/request.txt.tmpl"))
	htmlTemplate = htmltemplate.Must(
		htmltemplate.New("request.html.tmpl").
			Funcs(htmltemplate.FuncMap{"lines": lines}).
			ParseFS(templateFS, "templates/request.html.tmpl"),
	)
)

// Rendered notification for a single submission
type Content struct {
	Subject string
	Text    string
	HTML    string
}

type view struct {
	types.SubmissionRequest
	WhatsAppNumber string
	Timestamp      string
	LongTimestamp  string
}

type Composer struct {
	clock clock
}

// Timestamps are rendered in loc, UTC when nil
func NewComposer(loc *time.Location) *Composer {
	return &Composer{clock: newClock(loc)}
}

// Renders the subject and both bodies for req as received at `at`.
//
// User supplied values are escaped in the HTML body and kept verbatim in the subject and text body.
func (c *Composer) Compose(ctx context.Context, req types.SubmissionRequest, at time.Time) (*Content, error) {
	_, span := tracer.Start(ctx, "Composer.Compose")
	defer span.End()

	v := view{
		SubmissionRequest: req,
		WhatsAppNumber:    WhatsAppNumber(req.WhatsApp),
		Timestamp:         c.clock.Short(at),
		LongTimestamp:     c.clock.Long(at),
	}

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, v); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render text body")
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, v); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render html body")
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return &Content{
		Subject: SubjectPrefix + req.Name,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// International form of a local Egyptian number: a leading 0 becomes the country code
func WhatsAppNumber(raw string) string {
	if rest, ok := strings.CutPrefix(raw, "0"); ok {
		return countryCode + rest
	}
	return raw
}

func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
