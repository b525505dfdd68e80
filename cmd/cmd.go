// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand creates the config file and initializes the database schema, optionally resetting it.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Discard stored tags and history (sqlite: roll back and reapply the schema)",
			},
		},
		Action: r.Setup,
	}
}

func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "List the images below a directory with their tags",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", Value: "."},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: r.Scan,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show tags, name history and EXIF data of an image",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: r.Show,
	}
}

// tagCommand manages the tag store.
func tagCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tag",
		Aliases: []string{"tags"},
		Usage:   "Manage known tags",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List known tags",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: r.TagList,
			},
			{
				Name:  "add",
				Usage: "Add tags to the store",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "names", Min: 1, Max: -1},
				},
				Action: r.TagAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove tags from the store",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "names", Min: 1, Max: -1},
				},
				Action: r.TagRemove,
			},
		},
	}
}

func applyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Add tags to an image's name",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
			&cli.StringArgs{Name: "tags", Min: 1, Max: -1},
		},
		Action: r.Apply,
	}
}

func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Remove tags from an image's name",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
			&cli.StringArgs{Name: "tags", Min: 1, Max: -1},
		},
		Action: r.Delete,
	}
}

func retagCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "retag",
		Usage: "Apply the given tags and delete every other known tag",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
			&cli.StringArgs{Name: "tags", Min: 0, Max: -1},
		},
		Action: r.Retag,
	}
}

func revertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "revert",
		Usage: "Rename an image back to one of its past names",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
			&cli.StringArg{Name: "name"},
		},
		Action: r.Revert,
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List the past names of an image",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
		},
		Action: r.History,
	}
}

func logCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "View the rename log",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Usage:   "Number of lines to show, 0 for all",
				Value:   20,
			},
		},
		Action: r.Log,
	}
}

func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open the directory containing an image",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
		},
		Action: r.Open,
	}
}

func thumbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "thumb",
		Usage: "Write a preview thumbnail of an image",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "image"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Thumbnail path (default <data_dir>/thumbs/<name>.thumb.<ext>)",
			},
		},
		Action: r.Thumb,
	}
}

func thumbsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "thumbs",
		Usage: "Write preview thumbnails for every image below a directory",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", Value: "."},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default <data_dir>/thumbs)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent workers",
				Value: 4,
			},
		},
		Action: r.Thumbs,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a report of the images below a directory",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", Value: "."},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, md, txt or json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default phototag_export.<format>)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive tagging.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dir", Value: "."},
		},
		Action: r.TUI,
	}
}
