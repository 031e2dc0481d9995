package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
)

type DocCmd struct {
	flags *Flags

	// flags
	plain bool
}

// NewDocCmd creates a new doc command
func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

// Register adds the doc command to the application
func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Documentation guides",
		Description: `Access documentation for mingle.

Use 'mingle doc mentions' for the mention markup reference.
Use 'mingle doc import' for the import file format.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown without terminal styling",
				Destination: &cmd.plain,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mentions",
				Usage:  "Show the mention markup reference",
				Action: cmd.runMentions,
			},
			{
				Name:   "import",
				Usage:  "Show the import file format",
				Action: cmd.runImport,
			},
		},
	})
	return app
}

func (cmd *DocCmd) runMentions(_ context.Context, c *cli.Command) error {
	return cmd.render(c, mentionsGuide)
}

func (cmd *DocCmd) runImport(_ context.Context, c *cli.Command) error {
	return cmd.render(c, importGuide)
}

func (cmd *DocCmd) render(c *cli.Command, markdown string) error {
	w := c.Root().Writer

	if cmd.plain {
		fmt.Fprintln(w, markdown)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// fall back to raw markdown rather than failing the command
		fmt.Fprintln(w, markdown)
		return nil
	}

	out, err := r.Render(markdown)
	if err != nil {
		fmt.Fprintln(w, markdown)
		return nil
	}
	fmt.Fprint(w, out)
	return nil
}

const mentionsGuide = `# Mention Markup

Event descriptions store mentions in an inline markup format:

` + "```" + `
Doors at 8 with @[Ana Lima](u1) and @[Maria](ext-a1b2c3d4e5f6)
` + "```" + `

## Rules

- A mention is ` + "`@[Display Name](participant-id)`" + `.
- Display names may contain spaces but not brackets or newlines.
- Participant IDs may not contain parentheses or whitespace.
- IDs starting with ` + "`ext-`" + ` are external participants, people
  without an account. They render dimmed and never link to a profile.
- Anything that does not match the pattern is kept as literal text.
  A malformed mention never makes an event invalid.

## Behavior

- Everyone mentioned in a description is tagged on the event with a
  pending RSVP.
- In readers, a mention is tappable only when the participant accepted.
- Mentioning the same person twice collapses the second occurrence to
  plain text; a person is tagged at most once per event.

## Composing

The TUI composer resolves mentions as you type: an ` + "`@`" + ` at the start
of a word opens the candidate popup, filtered by the text after it.
Picking a candidate inserts the mention; picking "create" adds an
external participant with the typed name.
`

const importGuide = `# Import File Format

` + "`mingle import`" + ` reads YAML files matched by a glob pattern.
Use ` + "`**`" + ` to cross directory boundaries:

` + "```" + `
mingle import "feeds/**/*.yaml"
` + "```" + `

## Schema

` + "```yaml" + `
participants:
  - id: u1               # required, stable ID
    display_name: Ana    # required
    handle: analima
    contact_email: ana@example.com
    avatar_url: https://...

events:
  - title: Garage Show   # required
    starts_at: 2026-09-12 20:00   # RFC3339 or '2006-01-02 15:04'
    venue: The Basement
    description: with @[Ana Lima](u1)
` + "```" + `

Participants are upserted by ID, so re-importing a roster updates
names and handles in place. Events are always created new.
`
