package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/colonyops/mingle/internal/core/config"
	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/styles"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/randid"
	"github.com/urfave/cli/v3"
)

type InitCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	yes   bool
	force bool
	name  string
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags, app *mingle.App) *InitCmd {
	return &InitCmd{flags: flags, app: app}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize mingle configuration with an interactive wizard",
		UsageText: "mingle init [options]",
		Description: `Sets up mingle for first-time use.

The wizard will:
  - Generate ~/.config/mingle/config.yaml
  - Register your profile in the participant directory so events can
    tag you and RSVPs know who you are
  - Pick a color theme

Use --yes with --name to accept defaults without prompts.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "display name for your profile",
				Destination: &cmd.name,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if _, err := os.Stat(cmd.flags.ConfigPath); err == nil && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", cmd.flags.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(cmd.flags.ConfigPath + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Init cancelled")
			return nil
		}
	}

	cfg := config.Default(cmd.flags.DataDir)
	cfg.ProfileID = cmd.flags.Config.ProfileID
	name := strings.TrimSpace(cmd.name)
	theme := config.DefaultTheme

	if !cmd.yes {
		var err error
		name, theme, err = cmd.promptUser(name)
		if err != nil {
			return err
		}
	}

	if name == "" {
		return fmt.Errorf("display name is required, pass --name with --yes")
	}

	cfg.DisplayName = name
	cfg.TUI.Theme = theme

	// Reuse the existing profile on re-init so event tags stay attached.
	if cfg.ProfileID == "" {
		cfg.ProfileID = randid.Generate(12)
	}
	err := cmd.app.Directory.Register(ctx, directory.Participant{
		ID:          cfg.ProfileID,
		DisplayName: name,
		Handle:      handleFromName(name),
	})
	if err != nil {
		return fmt.Errorf("register profile: %w", err)
	}

	if err := cfg.Save(cmd.flags.ConfigPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", styles.TitleStyle.Render("mingle is ready"))
	fmt.Fprintf(out, "Config:  %s\n", cmd.flags.ConfigPath)
	fmt.Fprintf(out, "Data:    %s\n", cmd.flags.DataDir)
	fmt.Fprintf(out, "Profile: %s (%s)\n", name, cfg.ProfileID)
	fmt.Fprintln(out, "\nRun 'mingle tui' to browse events, or 'mingle new' to create one.")
	return nil
}

func (cmd *InitCmd) promptUser(presetName string) (name, theme string, err error) {
	name = presetName
	theme = config.DefaultTheme

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Display name").
			Description("How you appear when events mention you").
			Value(&name),
		huh.NewSelect[string]().
			Title("Color theme").
			Options(huh.NewOptions(styles.ThemeNames()...)...).
			Value(&theme),
	))
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(name), theme, nil
}

// handleFromName derives a lowercase handle from a display name.
func handleFromName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
