package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/mingle/internal/core/event"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type NewCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	title       string
	venue       string
	startsAt    string
	description string
	jsonOutput  bool
	reader      iojson.FileReader[newEventInput]
}

// newEventInput is the JSON shape accepted via --file or piped stdin.
type newEventInput struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	StartsAt    string `json:"starts_at"`
	Description string `json:"description"`
}

// NewNewCmd creates a new event creation command
func NewNewCmd(flags *Flags, app *mingle.App) *NewCmd {
	return &NewCmd{flags: flags, app: app}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create an event",
		UsageText: `mingle new --title "Garage Show" --at "2026-09-12 20:00" [--venue ...] [--desc ...]`,
		Description: `Creates an event from the command line.

The description accepts mention markup, e.g. "with @[Ana Lima](u1)".
Everyone mentioned is tagged on the event with a pending RSVP. For the
interactive composer with live mention suggestions, use 'mingle tui'.

With --file (or piped stdin), reads the event as JSON instead of flags:
{"title": ..., "starts_at": ..., "venue": ..., "description": ...}`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Usage:       "event title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "at",
				Usage:       "start time (RFC3339, '2006-01-02 15:04', or '2006-01-02')",
				Destination: &cmd.startsAt,
			},
			&cli.StringFlag{
				Name:        "venue",
				Usage:       "where the event happens",
				Destination: &cmd.venue,
			},
			&cli.StringFlag{
				Name:        "desc",
				Usage:       "description, mention markup allowed",
				Destination: &cmd.description,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created event as JSON",
				Destination: &cmd.jsonOutput,
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	title, venue, at, description := cmd.title, cmd.venue, cmd.startsAt, cmd.description

	// Flag-less invocation reads the event as JSON from --file or stdin.
	if title == "" && at == "" {
		input, err := cmd.reader.Read()
		if err != nil {
			return err
		}
		title, venue, at, description = input.Title, input.Venue, input.StartsAt, input.Description
	}

	startsAt, err := event.ParseStartsAt(at)
	if err != nil {
		return err
	}

	ev, err := cmd.app.Events.Create(ctx, mingle.CreateOptions{
		Title:       title,
		Venue:       venue,
		StartsAt:    startsAt,
		Description: description,
		OrganizerID: cmd.flags.Config.ProfileID,
	})
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.Write(ev)
	}

	fmt.Fprintf(c.Root().Writer, "Created %s (%s)\n", ev.Title, ev.ID)
	return nil
}
