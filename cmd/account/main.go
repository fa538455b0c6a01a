package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/account/internal/account/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the account service",
		Long: `Run the account service. Configuration is read from the environment
(ACCOUNT_*, PORT, LOG_LEVEL, ...). Migrations are applied on start.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	rootCmd := &cobra.Command{
		Use:               "account",
		Short:             "OAuth2 bearer token account service",
		Version:           app.BuildVersion,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Args:              cobra.NoArgs,
		// No subcommand serves.
		RunE: runServe,
	}

	rootCmd.AddCommand(
		serveCmd,
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return app.Migrate(app.LoadConfig())
			},
		},
	)
	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.New(ctx, app.LoadConfig())
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
