package cmd

import (
	"github.com/spf13/cobra"

	"github.com/roastkit/plus-cli/internal/output"
)

func newFetchCmd(app *App) *cobra.Command {
	var (
		unauthorized bool
		out          outputFlags
	)

	cmd := &cobra.Command{
		Use:   "fetch URL_OR_PATH",
		Short: "Fetch a resource from the service",
		Long: `Perform an authorized GET against the service. Paths are resolved
against the configured API base; full URLs pass through unchanged.
An expired session token is renewed automatically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.client.Fetch(cmd.Context(), args[0], !unauthorized)
			if err != nil {
				return err
			}
			app.client.PublishLimits(resp.Body)
			if err := resp.APIError(); err != nil {
				return err
			}
			return output.PrintJSON(app.Stdout, resp.Body, out.jq, out.compact)
		},
	}

	cmd.Flags().BoolVar(&unauthorized, "unauthorized", false, "Send the request without a bearer token")
	addOutputFlags(cmd.Flags(), &out)
	return cmd
}
