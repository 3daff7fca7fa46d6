package cmds

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/mailer"
)

var tracer = otel.Tracer("github.com/serviceegy/contact-api/contactctl/cmds")

// SMTP session capability used by verify and send-test
type relay interface {
	mailer.Sender
	Verify(ctx context.Context) error
}

var newRelay = func(cfg *config.Config) relay {
	return mailer.NewSMTPSender(mailer.OptionsFromConfig(cfg.SMTP))
}

var rootCmd = &cobra.Command{
	Use:           "contactctl",
	Short:         "Operate the Service Egy contact api",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
