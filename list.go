package main

import (
	lib "github.com/awused/rotate-primary/lib"
	"github.com/urfave/cli/v2"
)

const tomlOutput = "toml"

func listCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "list"
	cmd.Usage = "Print the displays that take part in rotation, in rotation order"
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  tomlOutput,
			Usage: "Print the displays as a TOML document",
		},
	}

	cmd.Action = listAction

	return cmd
}

func listAction(c *cli.Context) error {
	cfg, closeConfig, err := openDisplayConfig()
	if err != nil {
		return err
	}
	defer closeConfig()

	set, err := lib.NewRotator(cfg, lib.WithLogger(lib.Logger())).Enumerate()
	if err != nil {
		return err
	}

	if c.Bool(tomlOutput) {
		return lib.WriteTOML(c.App.Writer, set)
	}
	return lib.WriteDisplays(c.App.Writer, set)
}
