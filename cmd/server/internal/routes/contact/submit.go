package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	srverr "github.com/serviceegy/contact-api/cmd/server/internal/error"
	servermiddleware "github.com/serviceegy/contact-api/cmd/server/internal/middleware"
	"github.com/serviceegy/contact-api/cmd/server/internal/response"
	"github.com/serviceegy/contact-api/internal/audit"
	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/mailer"
	"github.com/serviceegy/contact-api/internal/types"
	"github.com/serviceegy/contact-api/internal/validator"
)

func (h *Handler) record(ctx context.Context, outcome types.SubmissionOutcome) {
	h.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
}

func (h *Handler) Submit(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "Submit")
	defer span.End()

	l := logger.Logger

	span.AddEvent("received contact submission")

	requestTime, ok := c.Get(servermiddleware.TimeKey).(time.Time)
	if !ok {
		span.RecordError(srverr.ErrTypeAssertMismatch)
		span.SetStatus(codes.Error, fmt.Sprintf("time: %s", srverr.ErrTypeAssertMismatch))
		return response.InternalServerError
	}

	auditContext := audit.Context{
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		Origin:    c.Request().Header.Get(echo.HeaderOrigin),
	}

	span.SetAttributes(
		attribute.String("request.id", auditContext.RequestID),
		attribute.String("request.origin", auditContext.Origin),
		attribute.Int64("request.timestamp_ms", requestTime.UnixMilli()),
	)

	span.AddEvent("parsing request body")
	rdata, err := decodeSubmission(c.Request().Body)
	if err != nil {
		l.ErrorContext(ctx, "failed to parse contact submission", logger.Err(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse request data")
		audit.LogSubmissionRejected(auditContext, audit.ReasonUnparsable, nil)
		h.record(ctx, types.SubmissionOutcomeUnparsable)
		return response.InternalServerError
	}

	span.AddEvent("validating request body")
	if err = c.Validate(rdata); err != nil {
		missing := validator.MissingFields(err)
		if missing == nil {
			l.ErrorContext(ctx, "failed to validate contact submission", logger.Err(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to validate request data")
			return response.InternalServerError
		}

		l.InfoContext(ctx, "contact submission missing required fields", "fields", missing)
		span.RecordError(err)
		span.SetStatus(codes.Ok, "missing required fields")
		audit.LogSubmissionRejected(auditContext, audit.ReasonMissingFields, missing)
		h.record(ctx, types.SubmissionOutcomeRejected)
		return response.MissingFieldsError
	}

	span.AddEvent("checking mail configuration")
	if missing := h.smtp.MissingCredentials(); len(missing) > 0 {
		l.ErrorContext(ctx, "smtp credentials are not configured", "missing", missing)
		span.RecordError(nil)
		span.SetStatus(codes.Error, "smtp credentials are not configured")
		audit.LogSubmissionMisconfigured(auditContext, missing)
		h.record(ctx, types.SubmissionOutcomeMisconfigured)
		return response.MisconfiguredError
	}

	span.AddEvent("rendering notification")
	content, err := h.composer.Compose(ctx, *rdata, requestTime)
	if err != nil {
		l.ErrorContext(ctx, "failed to render notification", logger.Err(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render notification")
		return response.InternalServerError
	}

	msg := content.Message(&h.smtp)

	span.AddEvent("dispatching notification", trace.WithAttributes(
		attribute.String("smtp.host", h.smtp.Host),
		attribute.Int("smtp.port", h.smtp.Port),
	))
	messageID, err := h.sender.Send(ctx, msg)
	if err != nil {
		kind := mailer.KindOf(err)
		l.ErrorContext(
			ctx,
			"failed to dispatch notification",
			"kind",
			kind.String(),
			"host",
			h.smtp.Host,
			"port",
			h.smtp.Port,
			logger.Err(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to dispatch notification")
		audit.LogSubmissionFailed(auditContext, kind.String())
		h.record(ctx, types.SubmissionOutcomeFailed)

		switch {
		case errors.Is(err, mailer.ErrAuth):
			return response.AuthFailedError
		case errors.Is(err, mailer.ErrConnection):
			return response.ConnectionFailedError
		default:
			return response.SendFailedError(err.Error())
		}
	}

	l.InfoContext(ctx, "dispatched contact submission", "messageId", messageID)
	span.SetAttributes(attribute.String("smtp.message_id", messageID))
	audit.LogSubmissionDispatched(auditContext, messageID)
	h.record(ctx, types.SubmissionOutcomeDispatched)

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")

	return c.JSON(http.StatusOK, types.SubmissionResponse{
		Success:   true,
		Message:   response.MsgSubmitted,
		MessageID: messageID,
	})
}
