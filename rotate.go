package main

import (
	"fmt"

	lib "github.com/awused/rotate-primary/lib"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func rotateCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "rotate"
	cmd.Usage = "Switch the primary display to the next attached display. " +
		"This is the default when no command is given"
	cmd.Action = rotateAction

	return cmd
}

func rotateAction(c *cli.Context) error {
	if c.NArg() > 0 {
		return cli.Exit(
			fmt.Sprintf("Unexpected argument %q", c.Args().First()),
			lib.ExitUnexpected)
	}

	cfg, closeConfig, err := openDisplayConfig()
	if err != nil {
		return err
	}
	defer closeConfig()

	r := lib.NewRotator(cfg,
		lib.WithLogger(lib.Logger()),
		lib.WithOutput(c.App.Writer),
		lib.WithDryRun(c.Bool(dryRun)))

	res, err := r.Rotate()
	lib.Logger().Debug("Run finished",
		zap.Stringer("state", res.State),
		zap.Int("previous", res.Previous),
		zap.String("primary", res.NewPrimary()),
		zap.Bool("no_op", res.NoOp))
	return err
}
