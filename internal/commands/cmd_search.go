package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type SearchCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	jsonOutput bool
	people     bool
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags, app *mingle.App) *SearchCmd {
	return &SearchCmd{flags: flags, app: app}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Usage:     "Search events or people",
		UsageText: "mingle search [--people] <query>",
		Description: `Fuzzy-searches event titles and venues. With --people, searches the
participant directory by display name and handle instead.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "people",
				Aliases:     []string{"p"},
				Usage:       "search the participant directory",
				Destination: &cmd.people,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query is required")
	}

	out := c.Root().Writer

	if cmd.people {
		people, err := cmd.app.Directory.Suggest(ctx, query)
		if err != nil {
			return err
		}
		if len(people) == 0 {
			fmt.Fprintf(os.Stderr, "No participants match %q\n", query)
			return nil
		}

		if cmd.jsonOutput {
			for _, p := range people {
				if err := iojson.WriteWith(out, os.Stderr, p); err != nil {
					return err
				}
			}
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tHANDLE\tID")
		for _, p := range people {
			handle := p.Handle
			if p.External {
				handle = "(external)"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.DisplayName, handle, p.ID)
		}
		return w.Flush()
	}

	events, err := cmd.app.Events.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintf(os.Stderr, "No events match %q\n", query)
		return nil
	}

	if cmd.jsonOutput {
		for _, e := range wrapEvents(events) {
			if err := iojson.WriteWith(out, os.Stderr, e); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTITLE\tVENUE\tID")
	for _, e := range events {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.StartsAt.Local().Format("Mon Jan 02 15:04"), e.Title, e.Venue, e.ID)
	}
	return w.Flush()
}
