// Command ahem runs a demo server for flash notices and previews notice
// markup from a settings file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/urfave/cli/v3"
)

// Populated at build time via -ldflags.
var version = "dev"

func build() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			return mv
		}
	}
	return version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "ahem",
		Usage:   "Flash notices for web applications",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "path to a YAML settings file (built-in settings when empty)",
				Sources: cli.EnvVars("AHEM_SETTINGS_FILE"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			previewCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ahem: %v\n", err)
		os.Exit(1)
	}
}
