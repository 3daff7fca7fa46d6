package contact

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/email"
	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/mailer"
)

const name = "github.com/serviceegy/contact-api/server/routes/contact"

var tracer = otel.Tracer(name)

// Paths the form posts to. The second one is where the site's old handler lived.
var Prefixes = []string{"/", "/api/contact/"}

type Handler struct {
	sender      mailer.Sender
	composer    *email.Composer
	smtp        config.SMTPConfig
	submissions metric.Int64Counter
}

// smtp is copied, later changes to the caller's value are not observed
func NewHandler(sender mailer.Sender, composer *email.Composer, smtp config.SMTPConfig) (*Handler, error) {
	submissions, err := otel.Meter(name).Int64Counter(
		"submissions",
		metric.WithDescription("Contact form submissions by outcome"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create submissions counter: %w", err)
	}

	return &Handler{
		sender:      sender,
		composer:    composer,
		smtp:        smtp,
		submissions: submissions,
	}, nil
}

// Mounts preflight and submit on every prefix. submitMiddleware only wraps the submit routes.
func (h *Handler) AddRoutes(e *echo.Echo, submitMiddleware ...echo.MiddlewareFunc) {
	l := logger.Logger

	for _, prefix := range Prefixes {
		e.OPTIONS(prefix, h.Preflight)
		e.POST(prefix, h.Submit, submitMiddleware...)
		l.Debug("added contact routes", "prefix", prefix)
	}
}
