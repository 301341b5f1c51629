package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running app", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "mnistmock",
		Usage:          "Generate mock MNIST-style CSV datasets",
		DefaultCommand: "generate",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"MNISTMOCK_LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			level, err := parseLogLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			verifyCommand(),
			serveCommand(),
			fetchCommand(),
		},
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
