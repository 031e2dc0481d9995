package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *mingle.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *mingle.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive event browser",
		UsageText: "mingle tui",
		Description: `Opens the full-screen event browser and composer.

The composer's description field resolves @mentions as you type.`,
		Action: cmd.Run,
	})
	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	model := tui.NewModel(cmd.app)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
