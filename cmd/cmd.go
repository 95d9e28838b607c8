// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// nowCommand announces the currently playing track
func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "now",
		Usage: "Print a one-line announcement of the currently playing track",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw playback state as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording the announcement in history",
			},
		},
		Action: r.Now,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify via a local callback server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "manual",
						Usage: "Print the authorization URL instead of starting a callback server",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "code",
				Usage: "Exchange a pasted authorization code for tokens",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "code",
					},
				},
				Action: r.AuthCode,
			},
			{
				Name:   "status",
				Usage:  "Check stored credentials and refresh token validity",
				Action: r.AuthStatus,
			},
		},
	}
}

// historyCommand browses recorded announcements
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse past announcements",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent announcements, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of announcements to show",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one announcement by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "purge",
				Usage: "Delete announcements older than the given number of days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Retention window in days",
						Value: 30,
					},
				},
				Action: r.HistoryPurge,
			},
		},
	}
}

// setupCommand handles configuration and database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
