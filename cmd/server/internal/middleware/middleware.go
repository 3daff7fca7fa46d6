package middleware

import "go.opentelemetry.io/otel"

const name string = "github.com/serviceegy/contact-api/server/middleware"

var tracer = otel.Tracer(name)
