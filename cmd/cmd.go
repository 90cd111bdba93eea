// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// libraryCommand handles library registration and listing
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Manage music libraries",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a library rooted at a directory",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Library name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Usage:    "Root directory of the library",
						Required: true,
					},
				},
				Action: r.LibraryAdd,
			},
			{
				Name:  "list",
				Usage: "List registered libraries",
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
				Action: r.LibraryList,
			},
		},
	}
}

// scanCommand reconciles a library against its filesystem root
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan a library and reconcile its catalog",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "library",
				Aliases:  []string{"l"},
				Usage:    "Name of the library to scan",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "full",
				Usage: "Wipe and re-extract every track in the library",
			},
		},
		Action: r.Scan,
	}
}

// tracksCommand dumps the catalog
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List cataloged tracks",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Limit output to one library",
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
		Action: r.Tracks,
	}
}

// exportCommand writes the catalog to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog as CSV, Markdown, or text",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Limit export to one library",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, md, txt)",
				Value:   "txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse libraries and tracks interactively",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Tui,
	}
}
