package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/iojson"
	"github.com/urfave/cli/v3"
)

// FollowCmd registers follow, unfollow, and following.
type FollowCmd struct {
	flags *Flags
	app   *mingle.App

	// flags
	jsonOutput bool
}

// NewFollowCmd creates the follow command group
func NewFollowCmd(flags *Flags, app *mingle.App) *FollowCmd {
	return &FollowCmd{flags: flags, app: app}
}

// Register adds the follow commands to the application
func (cmd *FollowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "follow",
			Usage:     "Follow a participant",
			UsageText: "mingle follow <participant-id>",
			Action:    cmd.runFollow,
		},
		&cli.Command{
			Name:      "unfollow",
			Usage:     "Stop following a participant",
			UsageText: "mingle unfollow <participant-id>",
			Action:    cmd.runUnfollow,
		},
		&cli.Command{
			Name:      "following",
			Usage:     "List followed participants",
			UsageText: "mingle following [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "json",
					Usage:       "output as JSON lines",
					Destination: &cmd.jsonOutput,
				},
			},
			Action: cmd.runFollowing,
		},
	)

	return app
}

func (cmd *FollowCmd) runFollow(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("participant id is required")
	}
	if err := cmd.app.Follows.Follow(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.Root().Writer, "Following %s\n", id)
	return nil
}

func (cmd *FollowCmd) runUnfollow(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("participant id is required")
	}
	if err := cmd.app.Follows.Unfollow(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.Root().Writer, "Unfollowed %s\n", id)
	return nil
}

func (cmd *FollowCmd) runFollowing(ctx context.Context, c *cli.Command) error {
	people, err := cmd.app.Follows.Following(ctx)
	if err != nil {
		return err
	}

	if len(people) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "Not following anyone yet")
		}
		return nil
	}

	out := c.Root().Writer

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
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.DisplayName, p.Handle, p.ID)
	}
	return w.Flush()
}
