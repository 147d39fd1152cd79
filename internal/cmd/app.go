package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roastkit/plus-cli/internal/config"
	"github.com/roastkit/plus-cli/internal/errors"
	"github.com/roastkit/plus-cli/internal/plus"
	"github.com/roastkit/plus-cli/internal/ui"
)

// App owns CLI wiring and execution configuration.
type App struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version string

	cfg    *config.Config
	ui     *ui.UI
	client *plus.Client
}

// NewApp constructs an App with default settings.
func NewApp() *App {
	return &App{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: "dev",
	}
}

// Execute runs the CLI with the provided args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		a.printError(err)
		return err
	}
	return nil
}

// RootCommand exposes the root cobra command for embedding/tests.
func (a *App) RootCommand() *cobra.Command {
	return newRootCmd(a)
}

// printError renders a command error with its suggestion, if any.
func (a *App) printError(err error) {
	u := a.ui
	if u == nil {
		u = ui.NewWithWriter(a.Stderr, ui.ColorAuto)
	}
	u.Error("%v", err)
	if suggestion := errors.UserSuggestion(err); suggestion != "" {
		u.Info("%s", suggestion)
	}
}
