package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roastkit/plus-cli/internal/cmdutil"
	"github.com/roastkit/plus-cli/internal/errors"
	"github.com/roastkit/plus-cli/internal/output"
)

func newSubmitCmd(app *App) *cobra.Command {
	var (
		unauthorized bool
		noCompress   bool
		file         string
		out          outputFlags
	)

	cmd := &cobra.Command{
		Use:   "submit URL_OR_PATH [JSON]",
		Short: "Submit a JSON payload to the service",
		Long: `POST a JSON payload. The payload can be given inline, via @file,
via --file, or on stdin with '-'. Large payloads are gzip-compressed
unless --no-compress is set.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inline := ""
			if len(args) == 2 {
				inline = args[1]
			}
			raw, err := cmdutil.ResolveJSONInput(inline, file)
			if err != nil {
				return err
			}
			if !json.Valid([]byte(raw)) {
				return errors.NewUserError(
					"payload is not valid JSON",
					"Pass inline JSON, @file, or '-' for stdin",
				)
			}

			compress := app.cfg.CompressionEnabled() && !noCompress
			resp, err := app.client.SubmitWithCompression(
				cmd.Context(), args[0], json.RawMessage(raw), !unauthorized, compress)
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
	cmd.Flags().BoolVar(&noCompress, "no-compress", false, "Never gzip the request body")
	cmd.Flags().StringVar(&file, "file", "", "Read the JSON payload from a file")
	addOutputFlags(cmd.Flags(), &out)
	return cmd
}
