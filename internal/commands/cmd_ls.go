package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/colonyops/mingle/internal/core/event"
	"github.com/colonyops/mingle/internal/core/mention"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type LsCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	jsonOutput bool
	all        bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *mingle.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List upcoming events",
		UsageText: "mingle ls [--all] [--json]",
		Description: `Displays a table of upcoming events with their start time, venue, and ID.

Use --all to include past events, and --json for machine-readable output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "include events that already happened",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	var (
		events []mingleEvent
		err    error
	)

	if cmd.all {
		evs, lerr := cmd.app.Events.List(ctx)
		events, err = wrapEvents(evs), lerr
	} else {
		evs, lerr := cmd.app.Events.Upcoming(ctx, time.Now())
		events, err = wrapEvents(evs), lerr
	}
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	if len(events) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No events found\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range events {
			if err := iojson.WriteWith(out, os.Stderr, e); err != nil {
				return fmt.Errorf("encode event: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTITLE\tVENUE\tID")
	for _, e := range events {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.StartsAt.Local().Format("Mon Jan 02 15:04"),
			e.Title,
			e.Venue,
			e.ID,
		)
	}
	return w.Flush()
}

// mingleEvent is the ls wire shape; descriptions are flattened to plain
// text so JSON consumers do not need to understand mention markup.
type mingleEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Venue       string    `json:"venue,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Description string    `json:"description,omitempty"`
}

func wrapEvents(evs []event.Event) []mingleEvent {
	out := make([]mingleEvent, len(evs))
	for i, ev := range evs {
		out[i] = mingleEvent{
			ID:          ev.ID,
			Title:       ev.Title,
			Venue:       ev.Venue,
			StartsAt:    ev.StartsAt,
			Description: mention.ToPlainText(ev.Description),
		}
	}
	return out
}
