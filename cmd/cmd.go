// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is the shared --config flag.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check stored token state and current user",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// harvestCommand lists the top standards from the index page.
func harvestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "harvest",
		Usage: "List the top jazz standards from the compositions index",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of standards to list",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Harvest,
	}
}

// citationsCommand extracts recommended recordings for one standard.
func citationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "citations",
		Usage: "Extract recommended recordings from a standard's detail page",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Citations,
	}
}

// resolveCommand resolves a single citation against the catalog.
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve one cited recording to a Spotify track",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "title",
				Usage:    "Standard title",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "artist",
				Usage:    "Cited artist",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "info",
				Usage: "Recording info (year or album text)",
			},
			&cli.BoolFlag{
				Name:  "batch",
				Usage: "Non-interactive: never accept weak matches",
			},
		},
		Action: r.Resolve,
	}
}

// runCommand executes the full pipeline.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Harvest standards and build the playlist end to end",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Playlist name (overrides config)",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Playlist description (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Create the playlist as public",
			},
			&cli.BoolFlag{
				Name:  "batch",
				Usage: "Non-interactive: skip weak-match prompts",
			},
			&cli.BoolFlag{
				Name:  "accept-weak",
				Usage: "With --batch, accept weak matches instead of rejecting",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording the run to the local database",
			},
		},
		Action: r.Run,
	}
}

// setupCommand initializes configuration and the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// historyCommand inspects past runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded pipeline runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show per-recording outcomes for one run",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "outcome",
						Usage: "Filter by outcome (auto, accepted, no_match, skipped)",
					},
				},
				Action: r.HistoryShow,
			},
		},
	}
}
