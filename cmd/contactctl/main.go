package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/serviceegy/contact-api/cmd/contactctl/cmds"
	clierrors "github.com/serviceegy/contact-api/internal/cli_errors"
	"github.com/serviceegy/contact-api/internal/logger"
	otelcontactapi "github.com/serviceegy/contact-api/internal/otel"
)

var tracer = otel.Tracer("github.com/serviceegy/contact-api/contactctl")

func runApp(ctx context.Context) int {
	useOTLP, err := strconv.ParseBool(os.Getenv("USE_OTLP"))
	if err != nil {
		useOTLP = false
	}

	// stdout belongs to the command output
	shutdown, err := otelcontactapi.SetupOTelSDK(ctx, otelcontactapi.Options{
		UseOTLP:     useOTLP,
		ServiceName: "contactctl",
		Writer:      os.Stderr,
	})
	if err != nil {
		logger.Logger.Warn("failed to setup otel sdk", logger.Err(err))
	}
	defer func() {
		fail := shutdown(ctx)
		if fail != nil {
			logger.Logger.Warn("no clean shutdown for otel", logger.Err(fail))
		}
	}()

	ctx, span := tracer.Start(ctx, "contactctl", trace.WithNewRoot())
	defer span.End()

	err = cmds.Execute(ctx)
	if err != nil {
		logger.Logger.Error("error executing subcommands", logger.Err(err))
		return clierrors.ExitCode(err)
	}

	return 0
}

func main() {
	logger.LogLevel.Set(slog.LevelWarn)
	slog.SetDefault(logger.Logger)

	os.Exit(runApp(context.Background()))
}
