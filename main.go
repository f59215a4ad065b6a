package main

import (
	"fmt"
	"io"
	"os"

	lib "github.com/awused/rotate-primary/lib"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const dryRun = "dry-run"
const verbose = "verbose"
const logFile = "log-file"

// Replaced in tests
var newDisplayConfig = lib.NewDisplayConfig

func main() {
	lib.AttachParentConsole()
	// cli grabbed os.Stderr before the console was attached
	cli.ErrWriter = os.Stderr
	cli.OsExiter = func(code int) {
		lib.Cleanup()
		os.Exit(code)
	}

	err := newApp().Run(os.Args)
	checkErr(err)
	lib.Cleanup()
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "rotate-primary"
	app.Usage = "Make the next attached display the primary display, " +
		"keeping the arrangement of all displays"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    dryRun,
			Aliases: []string{"n"},
			Usage:   "Print the new layout without changing anything",
		},
		&cli.BoolFlag{
			Name:    verbose,
			Aliases: []string{"v"},
			Usage:   "Log every display and staging call",
		},
		&cli.StringFlag{
			Name:      logFile,
			Usage:     "Write diagnostics to this file instead of stderr",
			TakesFile: true,
		},
	}
	app.Before = beforeFunc
	app.ExitErrHandler = exitErrHandler
	app.Action = rotateAction
	app.Commands = []*cli.Command{
		rotateCommand(),
		listCommand(),
	}
	return app
}

func beforeFunc(c *cli.Context) error {
	_, err := lib.Init(lib.Options{
		LogFile: c.String(logFile),
		Verbose: c.Bool(verbose),
	})
	return err
}

// Prints the diagnostic and exits with the code matching the failed step
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}
	lib.Logger().Debug("Run failed",
		zap.Int("code", lib.ExitCode(err)),
		zap.Error(err))
	cli.HandleExitCoder(err)
}

func openDisplayConfig() (lib.DisplayConfig, func(), error) {
	cfg, err := newDisplayConfig()
	if err != nil {
		// No way to talk to the display configuration means no displays
		return nil, nil, &lib.Error{Kind: lib.ErrNoDisplaysFound, Cause: err}
	}

	closer := func() {}
	if c, ok := cfg.(io.Closer); ok {
		closer = func() { _ = c.Close() }
	}
	return cfg, closer, nil
}

func checkErr(err error) {
	if err != nil {
		// Anything implementing cli.ExitCoder has already exited
		fmt.Fprintln(os.Stderr, err)
		lib.Cleanup()
		os.Exit(lib.ExitUnexpected)
	}
}
