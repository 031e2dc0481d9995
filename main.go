package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/mingle/internal/commands"
	"github.com/colonyops/mingle/internal/core/config"
	"github.com/colonyops/mingle/internal/core/styles"
	"github.com/colonyops/mingle/internal/data/db"
	"github.com/colonyops/mingle/internal/data/stores"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		mingleApp   = &mingle.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "mingle",
		Usage:     "Plan events with your people",
		UsageText: "mingle [global options] command [command options]",
		Description: `Mingle is a local-first client for discovering and planning events.

Event descriptions mention people inline: typing @ opens a directory
lookup, and everyone mentioned is tagged on the event with a pending
RSVP. Guests without an account can be added as external participants.

Run 'mingle' with no arguments to open the interactive browser.
Run 'mingle init' the first time to set up your profile.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MINGLE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/mingle.log)",
				Sources:     cli.EnvVars("MINGLE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MINGLE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("MINGLE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/mingle.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "mingle.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			database, err = db.Open(cfg.DataDir, db.OpenOptions{
				MaxOpenConns:  cfg.Database.MaxOpenConns,
				MaxIdleConns:  cfg.Database.MaxIdleConns,
				BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
			})
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// Start background KV sweep goroutine
			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go mingle.StartSweep(sweepCtx, stores.NewKVStore(database), 5*time.Minute)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*mingleApp = *mingle.NewApp(cfg, database)
			flags.App = mingleApp

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if sweepCancel != nil {
				sweepCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, mingleApp)

	app = commands.NewInitCmd(flags, mingleApp).Register(app)
	app = commands.NewNewCmd(flags, mingleApp).Register(app)
	app = commands.NewLsCmd(flags, mingleApp).Register(app)
	app = commands.NewShowCmd(flags, mingleApp).Register(app)
	app = commands.NewSearchCmd(flags, mingleApp).Register(app)
	app = commands.NewRsvpCmd(flags, mingleApp).Register(app)
	app = commands.NewFollowCmd(flags, mingleApp).Register(app)
	app = commands.NewImportCmd(flags, mingleApp).Register(app)
	app = commands.NewDocCmd(flags).Register(app)
	app = tuiCmd.Register(app)

	// Open the TUI when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'mingle --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
