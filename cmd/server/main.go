package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	otellib "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/serviceegy/contact-api/cmd/server/internal/ratelimit"
	"github.com/serviceegy/contact-api/cmd/server/internal/routes"
	"github.com/serviceegy/contact-api/cmd/server/internal/routes/contact"
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/email"
	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/mailer"
	"github.com/serviceegy/contact-api/internal/otel"
)

const name string = "github.com/serviceegy/contact-api/server"

var tracer = otellib.Tracer(name)

type server struct {
	router       *echo.Echo
	config       *config.Config
	redis        *redis.Client
	otelShutdown func(context.Context) error
}

// Wires the contact routes onto a fresh router. rdb may be nil when rate limiting is disabled.
func buildRouter(cfg *config.Config, sender mailer.Sender, rdb *redis.Client) (*echo.Echo, error) {
	loc, err := cfg.Mail.Location()
	if err != nil {
		return nil, err
	}

	e, err := routes.BuildEcho(logger.Logger, routes.Options{
		AllowList:      cfg.Origins(),
		TrustedProxies: cfg.Proxies(),
	})
	if err != nil {
		return nil, fmt.Errorf("error building router: %w", err)
	}

	handler, err := contact.NewHandler(sender, email.NewComposer(loc), *cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("error building contact handler: %w", err)
	}

	submitMiddleware := []echo.MiddlewareFunc{}
	if rdb != nil && cfg.RateLimit != nil && cfg.RateLimit.SubmitPerMinute > 0 {
		submitMiddleware = append(submitMiddleware, middleware.RateLimiterWithConfig(
			ratelimit.NewRedisLimiter(
				rdb,
				"submit",
				cfg.RateLimit.SubmitPerMinute,
				cfg.RateLimit.FailOpen,
				nil,
			),
		))
	}

	handler.AddRoutes(e, submitMiddleware...)

	return e, nil
}

func initServer(ctx context.Context) (*server, error) {
	server := new(server)

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server config: %w", err)
	}
	server.config = cfg

	shutdownOTel, err := otel.SetupOTelSDK(ctx, otel.Options{UseOTLP: cfg.Logging.UseOTLP})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OTEL SDK: %w", err)
	}
	defer func() {
		// Something failed to initialize, make sure everything gets flushed to the server
		if server.otelShutdown == nil {
			otelShutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Second*time.Duration(cfg.GracefulShutdownSecs),
			)
			defer cancel()

			if err = shutdownOTel(otelShutdownCtx); err != nil {
				logger.Logger.Error("failed to flush otel data", "error", err)
			}
		}
	}()

	_, span := tracer.Start(ctx, "initServer")
	defer span.End()

	logger.LogLevel.Set(slog.Level(cfg.Logging.App.Level))

	if !cfg.SMTP.HasCredentials() {
		// Submissions are answered with a configuration error until this is fixed
		logger.Logger.Warn("smtp credentials are not configured", "missing", cfg.SMTP.MissingCredentials())
	}

	sender := mailer.NewSMTPSender(mailer.OptionsFromConfig(cfg.SMTP))

	span.AddEvent("initialized smtp sender")

	if cfg.RateLimit != nil && cfg.RateLimit.SubmitPerMinute > 0 {
		logger.Logger.Debug("Setting up redis client", "redis", cfg.RateLimit.RedisAddress)
		server.redis = redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddress})
		span.AddEvent("initialized redis client")
	}

	e, err := buildRouter(cfg, sender, server.redis)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error building router")
		return nil, err
	}

	span.AddEvent("created echo router")

	logger.Logger.Info(
		"configured contact api",
		"origins",
		cfg.Origins(),
		"smtpHost",
		cfg.SMTP.Host,
		"smtpPort",
		cfg.SMTP.Port,
		"recipient",
		cfg.SMTP.To,
		"from",
		cfg.SMTP.NominalFrom(),
	)

	server.otelShutdown = shutdownOTel
	server.router = e

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "")
	return server, nil
}

func (s *server) Start() error {
	logger.Logger.Info("Starting services...", "address", s.config.ListenAddress)

	err := s.router.Start(s.config.ListenAddress)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *server) Shutdown() error {
	var errs error

	ctx, cancelTimeout := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(s.config.GracefulShutdownSecs),
	)
	defer cancelTimeout()

	if err := s.router.Shutdown(ctx); err != nil {
		errs = errors.Join(errs, err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if s.otelShutdown != nil {
		errs = errors.Join(errs, s.otelShutdown(ctx))
	}

	return errs
}

func main() {
	ctx, cancelSignal := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	logger.InitSlog()

	server, err := initServer(ctx)
	if err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	errch := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Got shutdown signal!")
		errch <- server.Shutdown()
		close(errch)
	}()

	if err := server.Start(); err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	if err := <-errch; err != nil {
		logger.Logger.Error("Error shutting down server", "error", err)
	}

	cancelSignal()
}
