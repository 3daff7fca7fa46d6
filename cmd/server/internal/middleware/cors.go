package middleware

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/serviceegy/contact-api/internal/cors"
)

// Writes the CORS headers resolved for the caller's Origin before the rest of the chain runs, so
// every response carries them, errors included.
//
// allowList is read only and shared across requests.
func CORS(allowList []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestOrigin := c.Request().Header.Get(echo.HeaderOrigin)

			_, span := tracer.Start(c.Request().Context(), "CORS", trace.WithAttributes(
				attribute.String("cors.request_origin", requestOrigin),
			))
			defer span.End()

			decision := cors.Resolve(allowList, requestOrigin)

			header := c.Response().Header()
			for _, h := range decision.Headers() {
				header.Set(h[0], h[1])
			}

			span.SetAttributes(attribute.String("cors.allow_origin", decision.AllowOrigin))
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "resolved cors headers")
			return next(c)
		}
	}
}
