package cmds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	clierrors "github.com/serviceegy/contact-api/internal/cli_errors"
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/mailer"
	"github.com/serviceegy/contact-api/internal/types"
)

var (
	verifyRetries uint64
	verifyBackoff time.Duration
)

// Opens and authenticates sessions until one succeeds. Only connection failures are retried,
// rejected credentials will not fix themselves.
func verifyRelay(ctx context.Context, r relay, retries uint64, base time.Duration) error {
	b := retry.NewFibonacci(base)
	b = retry.WithMaxRetries(retries, b)

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := r.Verify(ctx)
		if err == nil {
			return nil
		}

		logger.Logger.WarnContext(
			ctx,
			"smtp verification attempt failed",
			"attempt",
			attempt,
			"kind",
			mailer.KindOf(err).String(),
			logger.Err(err),
		)
		if errors.Is(err, mailer.ErrConnection) {
			return retry.RetryableError(err)
		}
		return err
	})
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the configured SMTP relay accepts the configured credentials",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "verifyCmd")
		defer span.End()

		cfg, err := config.GetConfig()
		if err != nil {
			err = clierrors.ExitErrorWrap(types.ExitMisconfigured, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load config")
			return err
		}

		if missing := cfg.SMTP.MissingCredentials(); len(missing) > 0 {
			err = clierrors.ExitErrorWrap(
				types.ExitMisconfigured,
				fmt.Errorf("smtp credentials are not configured: %v", missing),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "smtp credentials are not configured")
			return err
		}

		span.SetAttributes(
			attribute.String("smtp.host", cfg.SMTP.Host),
			attribute.Int("smtp.port", cfg.SMTP.Port),
		)

		if err = verifyRelay(ctx, newRelay(cfg), verifyRetries, verifyBackoff); err != nil {
			err = clierrors.ExitErrorWrap(types.ExitDispatchFailed, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "smtp verification failed")
			return err
		}

		if _, err = fmt.Fprintf(cmd.OutOrStdout(), "%s:%d accepted the credentials for %s\n",
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User); err != nil {
			return err
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "")
		return nil
	},
}

func init() {
	verifyCmd.Flags().Uint64Var(&verifyRetries, "retries", 5, "Retries after a connection failure")
	verifyCmd.Flags().
		DurationVar(&verifyBackoff, "backoff", 500*time.Millisecond, "Base of the fibonacci backoff between retries")
	rootCmd.AddCommand(verifyCmd)
}
