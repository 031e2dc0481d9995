package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/styles"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type ShowCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	jsonOutput bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *mingle.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show one event with its guest list",
		UsageText: "mingle show <event-id> [--json]",
		Description: `Prints the event, its description with mentions highlighted by RSVP
status, and the tagged participants.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("event id is required")
	}

	detail, err := cmd.app.Events.Detail(ctx, id)
	if err != nil {
		return fmt.Errorf("load event %q: %w", id, err)
	}

	if cmd.jsonOutput {
		return iojson.Write(detail)
	}

	segments, err := cmd.app.Events.Rendered(ctx, id)
	if err != nil {
		return fmt.Errorf("render description: %w", err)
	}

	out := c.Root().Writer
	ev := detail.Event

	fmt.Fprintln(out, styles.TitleStyle.Render(ev.Title))
	fmt.Fprintf(out, "%s\n", ev.StartsAt.Local().Format("Mon Jan 02 2006, 15:04"))
	if ev.Venue != "" {
		fmt.Fprintf(out, "at %s\n", ev.Venue)
	}

	if len(segments) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.RenderSegments(segments))
	}

	if len(detail.Participants) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.TextMutedStyle.Render("Guests"))
		for _, p := range detail.Participants {
			marker := statusMarker(p.Status)
			name := p.Participant.DisplayName
			if p.Participant.External {
				name += " (external)"
			}
			fmt.Fprintf(out, "  %s %s\n", marker, name)
		}
	}

	return nil
}

func statusMarker(s directory.Status) string {
	switch s {
	case directory.StatusAccepted:
		return styles.MentionStyle.Render("✓")
	case directory.StatusDeclined:
		return styles.MentionDeclinedStyle.Render("✗")
	default:
		return styles.MentionPendingStyle.Render("•")
	}
}
