package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	clierrors "github.com/serviceegy/contact-api/internal/cli_errors"
	"github.com/serviceegy/contact-api/internal/config"
	"github.com/serviceegy/contact-api/internal/cors"
	"github.com/serviceegy/contact-api/internal/types"
)

var (
	corsOrigin         string
	corsAllowedOrigins string
)

var corsCmd = &cobra.Command{
	Use:   "cors",
	Short: "Print the CORS headers a request from --origin would receive",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, span := tracer.Start(cmd.Context(), "corsCmd")
		defer span.End()

		allowList := cors.ParseAllowList(corsAllowedOrigins)
		if !cmd.Flags().Changed("allowed-origins") {
			cfg, err := config.GetConfig()
			if err != nil {
				err = clierrors.ExitErrorWrap(types.ExitMisconfigured, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to load config")
				return err
			}
			allowList = cfg.Origins()
		}

		span.SetAttributes(
			attribute.String("origin", corsOrigin),
			attribute.StringSlice("allow_list", allowList),
		)

		decision := cors.Resolve(allowList, corsOrigin)
		for _, h := range decision.Headers() {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h[0], h[1]); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to write output")
				return err
			}
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "")
		return nil
	},
}

func init() {
	corsCmd.Flags().StringVar(&corsOrigin, "origin", "", "Origin header of the request, empty when absent")
	corsCmd.Flags().
		StringVar(&corsAllowedOrigins, "allowed-origins", "", "Comma separated allow-list overriding the configured one")
	rootCmd.AddCommand(corsCmd)
}
