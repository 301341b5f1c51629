package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/draganm/mnistmock/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve generated datasets and recorded manifests over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "Port to listen on",
				EnvVars: []string{"MNISTMOCK_PORT", "PORT"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Postgres URL for the manifest endpoints",
				EnvVars: []string{"MNISTMOCK_DATABASE_URL", "DATABASE_URL"},
			},
			&cli.IntFlag{
				Name:    "max-rows",
				Value:   server.DefaultMaxRows,
				Usage:   "Largest row count a single request may ask for",
				EnvVars: []string{"MNISTMOCK_MAX_ROWS"},
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := server.New(&server.Config{
				DatabaseURL: c.String("database-url"),
				Port:        c.Int("port"),
				MaxRows:     c.Int("max-rows"),
			})
			if err != nil {
				return err
			}
			return s.Run(ctx)
		},
	}
}
