package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/jix-sortnetopt/sortnetgo/internal/logging"
)

func main() {
	// automaxprocs sizes GOMAXPROCS to the container/cgroup CPU quota --
	// the idiomatic Go stand-in for the upstream binary's process-global
	// jemalloc allocator (spec.md §6's "process-wide state" ambient concern;
	// Go has no pluggable global allocator to select).
	if _, err := maxprocs.Set(maxprocs.Logger(func(string, ...any) {})); err != nil {
		fmt.Fprintf(os.Stderr, "sortnetgo: automaxprocs: %v\n", err)
	}

	logger := logging.Setup()

	app := &cli.App{
		Name:      "sortnetgo",
		Usage:     "search for small sorting networks of a given width",
		ArgsUsage: "<width>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one positional argument, width, is required", 1)
			}
			width, err := parseWidth(c.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger.Info("starting search", "width", width)
			return run(logger, width)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseWidth(arg string) (int, error) {
	var width int
	if _, err := fmt.Sscanf(arg, "%d", &width); err != nil {
		return 0, fmt.Errorf("width must be an integer: %w", err)
	}
	if width < 1 || width > 15 {
		return 0, fmt.Errorf("width must be between 1 and 15, got %d", width)
	}
	return width, nil
}
