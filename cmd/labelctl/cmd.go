// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func profileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "Path to profile file",
		Value:   "labelctl.toml",
	}
}

func tokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "token",
		Usage: "Session token, overrides the profile",
	}
}

// loginCommand trades credentials for a session token.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and print a session token",
		Flags: []cli.Flag{
			profileFlag(),
			&cli.StringFlag{
				Name:     "login",
				Usage:    "Account login name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "password",
				Usage:    "Account password",
				Required: true,
			},
		},
		Action: r.Login,
	}
}

// schemaCommand handles database schema operations.
func schemaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Database schema operations",
		Commands: []*cli.Command{
			{
				Name:  "upgrade",
				Usage: "Apply pending schema versions to the database",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.StringFlag{
						Name:  "repository",
						Usage: "Schema repository path, overrides the profile",
					},
				},
				Action: r.SchemaUpgrade,
			},
		},
	}
}

// importCommand handles CSV imports.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import CSV files",
		Commands: []*cli.Command{
			{
				Name:  "artists",
				Usage: "Import artists from a CSV file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					profileFlag(),
					tokenFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Register even when similar artists exist",
					},
					&cli.BoolFlag{
						Name:  "best-effort",
						Usage: "Skip bad rows instead of aborting",
					},
				},
				Action: r.ImportArtists,
			},
			{
				Name:  "releases",
				Usage: "Import releases from a CSV file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					profileFlag(),
					tokenFlag(),
					&cli.BoolFlag{
						Name:  "best-effort",
						Usage: "Skip bad rows instead of aborting",
					},
				},
				Action: r.ImportReleases,
			},
		},
	}
}

// exportCommand handles CSV exports.
func exportCommand(r *Runner) *cli.Command {
	outputFlag := func() *cli.StringFlag {
		return &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		}
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export CSV files",
		Commands: []*cli.Command{
			{
				Name:  "artists",
				Usage: "Export all artists as CSV",
				Flags: []cli.Flag{
					profileFlag(),
					tokenFlag(),
					outputFlag(),
				},
				Action: r.ExportArtists,
			},
			{
				Name:  "releases",
				Usage: "Export all releases as CSV",
				Flags: []cli.Flag{
					profileFlag(),
					tokenFlag(),
					outputFlag(),
				},
				Action: r.ExportReleases,
			},
		},
	}
}

// accountCommand handles account administration.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Account administration",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a new account",
				Flags: []cli.Flag{
					profileFlag(),
					tokenFlag(),
					&cli.StringFlag{
						Name:     "login",
						Usage:    "Login name of the new account",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Password of the new account",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "role",
						Usage:    "Role of the new account (viewer, a_and_r or admin)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "employee-id",
						Usage: "Employee backing the account",
					},
				},
				Action: r.AccountAdd,
			},
		},
	}
}
