package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roastkit/plus-cli/internal/auth"
	"github.com/roastkit/plus-cli/internal/config"
	"github.com/roastkit/plus-cli/internal/logging"
	"github.com/roastkit/plus-cli/internal/plus"
	"github.com/roastkit/plus-cli/internal/ui"
)

func newRootCmd(app *App) *cobra.Command {
	var (
		debugMode   bool
		accountFlag string
	)

	rootCmd := &cobra.Command{
		Use:   "plus",
		Short: "CLI for the artisan.plus inventory service",
		Long: `A command-line client for the artisan.plus coffee inventory service.

Passwords are stored in the system keyring; the session token is kept
in memory and renewed automatically when it expires.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra must not emit its own error/usage text; error output
			// is handled centrally in App.Execute.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			logging.Setup(debugMode, app.Stderr)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if accountFlag != "" {
				cfg.Account = accountFlag
			}

			app.cfg = cfg
			app.ui = ui.NewWithWriter(app.Stderr, ui.ColorAuto)
			app.client = plus.NewClient(cfg, auth.Store{}, &uiNotifier{ui: app.ui}).
				WithVersion(app.Version)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&accountFlag, "account", "", "Override the configured account email")
	rootCmd.Version = app.Version

	rootCmd.AddCommand(newAuthCmd(app))
	rootCmd.AddCommand(newFetchCmd(app))
	rootCmd.AddCommand(newSubmitCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}
