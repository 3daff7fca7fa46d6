package cmds

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"

	clierrors "github.com/serviceegy/contact-api/internal/cli_errors"
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/email"
	"github.com/serviceegy/contact-api/internal/types"
)

const (
	partAll     = "all"
	partSubject = "subject"
	partText    = "text"
	partHTML    = "html"
)

var (
	renderFile string
	renderPart string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the notification for a submission without sending it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, span := tracer.Start(cmd.Context(), "renderCmd")
		defer span.End()

		switch renderPart {
		case partAll, partSubject, partText, partHTML:
		default:
			err := clierrors.ExitErrorWrap(
				types.ExitErrored,
				fmt.Errorf("unknown part %q, want one of all, subject, text, html", renderPart),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "unknown part")
			return err
		}

		cfg, err := config.GetConfig()
		if err != nil {
			err = clierrors.ExitErrorWrap(types.ExitMisconfigured, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to load config")
			return err
		}

		loc, err := cfg.Mail.Location()
		if err != nil {
			err = clierrors.ExitErrorWrap(types.ExitMisconfigured, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid timezone")
			return err
		}

		submission, err := loadSubmission(renderFile, cmd.InOrStdin())
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

		out := cmd.OutOrStdout()
		switch renderPart {
		case partSubject:
			_, err = fmt.Fprintln(out, content.Subject)
		case partText:
			_, err = fmt.Fprint(out, content.Text)
		case partHTML:
			_, err = fmt.Fprint(out, content.HTML)
		default:
			_, err = fmt.Fprintf(
				out,
				"Subject: %s\n\n%s\n%s",
				content.Subject,
				content.Text,
				content.HTML,
			)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to write output")
			return err
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "")
		return nil
	},
}

func init() {
	renderCmd.Flags().
		StringVarP(&renderFile, "file", "f", "", "JSON submission to render, - for stdin, sample when empty")
	renderCmd.Flags().StringVar(&renderPart, "part", partAll, "Part to print: all, subject, text or html")
	rootCmd.AddCommand(renderCmd)
}
