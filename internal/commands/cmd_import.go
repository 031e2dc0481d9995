package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/event"
	"github.com/colonyops/mingle/internal/core/validate"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type ImportCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	dryRun bool
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags, app *mingle.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import participants and events from YAML files",
		UsageText: `mingle import "feeds/**/*.yaml"`,
		Description: `Reads YAML files matched by a glob pattern ('**' crosses directories)
and loads their participants and events. Use this to seed the directory
from an exported community roster.

File format:

  participants:
    - id: u1
      display_name: Ana Lima
      handle: analima
  events:
    - title: Garage Show
      starts_at: 2026-09-12 20:00
      description: with @[Ana Lima](u1)`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "validate and report without writing",
				Destination: &cmd.dryRun,
			},
		},
		Action: cmd.run,
	})

	return app
}

// importFile is the YAML shape accepted by import.
type importFile struct {
	Participants []importParticipant `yaml:"participants"`
	Events       []importEvent       `yaml:"events"`
}

type importParticipant struct {
	ID           string `yaml:"id"`
	DisplayName  string `yaml:"display_name"`
	Handle       string `yaml:"handle"`
	ContactEmail string `yaml:"contact_email"`
	AvatarURL    string `yaml:"avatar_url"`
}

type importEvent struct {
	Title       string `yaml:"title"`
	Venue       string `yaml:"venue"`
	StartsAt    string `yaml:"starts_at"`
	Description string `yaml:"description"`
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	pattern := c.Args().First()
	if pattern == "" {
		return fmt.Errorf("glob pattern is required")
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("bad glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}

	var nParticipants, nEvents int
	for _, path := range paths {
		file, err := cmd.readFile(path)
		if err != nil {
			return err
		}

		for _, p := range file.Participants {
			if err := criterio.ValidateStruct(
				validate.ParticipantIDField("id", p.ID),
				validate.DisplayNameField("display_name", p.DisplayName),
			); err != nil {
				return fmt.Errorf("%s: invalid participant: %w", path, err)
			}
			if cmd.dryRun {
				nParticipants++
				continue
			}
			err := cmd.app.Directory.Register(ctx, directory.Participant{
				ID:           p.ID,
				DisplayName:  p.DisplayName,
				Handle:       p.Handle,
				ContactEmail: p.ContactEmail,
				AvatarURL:    p.AvatarURL,
				External:     directory.IsExternalID(p.ID),
			})
			if err != nil {
				return fmt.Errorf("%s: import participant %s: %w", path, p.ID, err)
			}
			nParticipants++
		}

		for _, e := range file.Events {
			startsAt, err := event.ParseStartsAt(e.StartsAt)
			if err != nil {
				return fmt.Errorf("%s: event %q: %w", path, e.Title, err)
			}
			if cmd.dryRun {
				nEvents++
				continue
			}
			_, err = cmd.app.Events.Create(ctx, mingle.CreateOptions{
				Title:       e.Title,
				Venue:       e.Venue,
				StartsAt:    startsAt,
				Description: e.Description,
			})
			if err != nil {
				return fmt.Errorf("%s: import event %q: %w", path, e.Title, err)
			}
			nEvents++
		}
	}

	verb := "Imported"
	if cmd.dryRun {
		verb = "Would import"
	}
	fmt.Fprintf(c.Root().Writer, "%s %d participant(s) and %d event(s) from %d file(s)\n",
		verb, nParticipants, nEvents, len(paths))
	return nil
}

func (cmd *ImportCmd) readFile(path string) (importFile, error) {
	var file importFile
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}
