package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/urfave/cli/v3"
)

type RsvpCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	participantID string
}

// NewRsvpCmd creates a new rsvp command
func NewRsvpCmd(flags *Flags, app *mingle.App) *RsvpCmd {
	return &RsvpCmd{flags: flags, app: app}
}

// Register adds the rsvp command to the application
func (cmd *RsvpCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rsvp",
		Usage:     "Record an RSVP for a tagged participant",
		UsageText: "mingle rsvp <event-id> <accepted|declined|pending> [--as <participant-id>]",
		Description: `Sets the RSVP status of a participant tagged on an event. Only
participants mentioned in the event description can RSVP.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "as",
				Usage:       "participant id to RSVP for (defaults to your own profile)",
				Destination: &cmd.participantID,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RsvpCmd) run(ctx context.Context, c *cli.Command) error {
	eventID := c.Args().Get(0)
	statusArg := strings.ToLower(c.Args().Get(1))
	if eventID == "" || statusArg == "" {
		return fmt.Errorf("usage: mingle rsvp <event-id> <accepted|declined|pending>")
	}

	status := directory.Status(statusArg)
	if !status.Valid() {
		return fmt.Errorf("invalid status %q, expected accepted, declined, or pending", statusArg)
	}

	participantID := cmd.participantID
	if participantID == "" {
		participantID = cmd.flags.Config.ProfileID
	}
	if participantID == "" {
		return fmt.Errorf("no participant profile configured, pass --as or run 'mingle init'")
	}

	if err := cmd.app.Events.RSVP(ctx, eventID, participantID, status); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "RSVP recorded: %s is %s\n", participantID, status)
	return nil
}
