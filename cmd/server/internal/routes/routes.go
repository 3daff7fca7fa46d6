package routes

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	servermiddleware "github.com/serviceegy/contact-api/cmd/server/internal/middleware"
	"github.com/serviceegy/contact-api/cmd/server/internal/response"
	"github.com/serviceegy/contact-api/internal/otel"
	"github.com/serviceegy/contact-api/internal/validator"
)

// Largest request body accepted, far above anything the form produces
const BodyLimit = "64K"

type Options struct {
	// CORS allow-list, see cors.ParseAllowList
	AllowList []string
	// Clock for the request time, time.Now when nil
	Now func() time.Time
	// CIDR ranges of reverse proxies whose X-Forwarded-For is believed. Empty means the
	// client address is always the peer address.
	TrustedProxies []string
}

// Client IP extraction for c.RealIP. Forwarding headers are ignored unless the peer is a
// trusted proxy, so a client cannot pick its own rate limit key.
func ClientIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy range %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}

	return echo.ExtractIPFromXFFHeader(opts...), nil
}

func BuildEcho(logger *slog.Logger, opts Options) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	ipExtractor, err := ClientIPExtractor(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}
	e.IPExtractor = ipExtractor

	validate := validator.Create()
	e.Validator = &validate

	e.Pre(middleware.AddTrailingSlash())

	e.Use(
		otelecho.Middleware(otel.ServiceName),
		middleware.RequestID(),
		slogecho.NewWithConfig(logger, slogecho.Config{WithRequestID: true}),
		servermiddleware.CORS(opts.AllowList),
		middleware.BodyLimit(BodyLimit),
		servermiddleware.Time(servermiddleware.TimeKey, opts.Now),
	)

	e.GET("/health/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.RouteNotFound("/*", func(c echo.Context) error { return response.NotFoundError })

	return e, nil
}
