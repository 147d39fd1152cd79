package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roastkit/plus-cli/internal/config"
	"github.com/roastkit/plus-cli/internal/errors"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit the plus-cli configuration",
	}

	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))

	return cmd
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Stdout, path)
			return nil
		},
	}
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			fmt.Fprintf(app.Stdout, "account: %s\n", cfg.Account)
			fmt.Fprintf(app.Stdout, "locale: %s\n", cfg.Locale)
			fmt.Fprintf(app.Stdout, "api_base: %s\n", cfg.APIBase)
			fmt.Fprintf(app.Stdout, "verify_tls: %t\n", cfg.TLSVerification())
			fmt.Fprintf(app.Stdout, "connect_timeout: %d\n", cfg.ConnectTimeoutSeconds)
			fmt.Fprintf(app.Stdout, "read_timeout: %d\n", cfg.ReadTimeoutSeconds)
			fmt.Fprintf(app.Stdout, "compress_posts: %t\n", cfg.CompressionEnabled())
			fmt.Fprintf(app.Stdout, "compression_threshold: %d\n", cfg.CompressionThreshold)
			fmt.Fprintf(app.Stdout, "expired_subscription_max_days: %d\n", cfg.ExpiredSubscriptionMaxDays)
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := applyConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			app.ui.Success("%s updated", args[0])
			return nil
		},
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "account":
		cfg.Account = value
	case "locale":
		cfg.Locale = value
	case "api_base":
		cfg.APIBase = value
	case "auth_url":
		cfg.AuthURL = value
	case "verify_tls":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.NewUserError(fmt.Sprintf("invalid boolean %q", value), "")
		}
		cfg.VerifyTLS = &b
	case "compress_posts":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.NewUserError(fmt.Sprintf("invalid boolean %q", value), "")
		}
		cfg.CompressPosts = &b
	case "connect_timeout", "read_timeout", "compression_threshold", "expired_subscription_max_days":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return errors.NewUserError(fmt.Sprintf("invalid number %q", value), "")
		}
		switch key {
		case "connect_timeout":
			cfg.ConnectTimeoutSeconds = n
		case "read_timeout":
			cfg.ReadTimeoutSeconds = n
		case "compression_threshold":
			cfg.CompressionThreshold = n
		case "expired_subscription_max_days":
			cfg.ExpiredSubscriptionMaxDays = n
		}
	default:
		return errors.NewUserError(
			fmt.Sprintf("unknown config key %q", key),
			"Run 'plus config get' to list available keys",
		)
	}
	return nil
}
