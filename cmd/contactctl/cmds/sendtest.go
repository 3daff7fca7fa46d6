package cmds

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	clierrors "github.com/serviceegy/contact-api/internal/cli_errors"
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/email"
	"github.com/serviceegy/contact-api/internal/types"
)

var sendTestFile string

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "Send one submission through the configured relay, exactly as the api would",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "sendTestCmd")
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

		loc, err := cfg.Mail.Location()
		if err != nil {
			err = clierrors.ExitErrorWrap(types.ExitMisconfigured, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid timezone")
			return err
		}

		submission, err := loadSubmission(sendTestFile, cmd.InOrStdin())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load submission")
			return err
		}

		content, err := email.NewComposer(loc).Compose(ctx, submission, time.Now())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to render")
			return err
		}

		messageID, err := newRelay(cfg).Send(ctx, content.Message(cfg.SMTP))
		if err != nil {
			err = clierrors.ExitErrorWrap(types.ExitDispatchFailed, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to send")
			return err
		}

		span.SetAttributes(attribute.String("smtp.message_id", messageID))
		if _, err = fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", messageID, cfg.SMTP.To); err != nil {
			return err
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "")
		return nil
	},
}

func init() {
	sendTestCmd.Flags().
		StringVarP(&sendTestFile, "file", "f", "", "JSON submission to send, - for stdin, sample when empty")
	rootCmd.AddCommand(sendTestCmd)
}
