package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roastkit/plus-cli/internal/auth"
	"github.com/roastkit/plus-cli/internal/cmdutil"
	"github.com/roastkit/plus-cli/internal/config"
	"github.com/roastkit/plus-cli/internal/errors"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage artisan.plus authentication",
		Long:  `Manage the artisan.plus account credentials. The password is stored in the system keyring; the session token stays in memory.`,
	}

	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))

	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and store the password in the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := app.cfg.Account
			if account == "" {
				return errors.NewUserError(
					"no account configured",
					"Run 'plus auth login --account you@example.com' or set account in the config file",
				)
			}

			password, err := cmdutil.ReadPassword(app.Stderr, os.Stdin)
			if err != nil {
				return err
			}
			if password == "" {
				return errors.NewUserError("password cannot be empty", "")
			}

			if err := auth.StorePassword(account, password); err != nil {
				return fmt.Errorf("failed to store password: %w", err)
			}
			app.client.Session().SetPassword(password)

			ok, err := app.client.Authenticate(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return &errors.AuthError{
					Reason:     "login rejected",
					Suggestion: "Check the account email and password",
				}
			}

			// Persist the account email so later invocations use it.
			if err := saveAccount(account); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if nickname := app.client.Session().Nickname(); nickname != "" {
				app.ui.Success("logged in as %s (%s)", nickname, account)
			} else {
				app.ui.Success("logged in as %s", account)
			}
			return nil
		},
	}
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session and remove the stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.client.Session().Clear(true)
			app.ui.Success("logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := app.cfg.Account
			if account == "" {
				app.ui.Warning("no account configured")
				return nil
			}
			app.ui.Info("account: %s", account)
			if auth.HasPassword(account) {
				app.ui.Success("password stored in keyring")
			} else {
				app.ui.Warning("no password stored; run 'plus auth login'")
			}
			return nil
		},
	}
}

// saveAccount writes the account email into the config file without
// disturbing other settings.
func saveAccount(account string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Account == account {
		return nil
	}
	cfg.Account = account
	return cfg.Save()
}
