package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"

	"github.com/draganm/mnistmock/internal/db"
	"github.com/draganm/mnistmock/internal/metrics"
	"github.com/draganm/mnistmock/internal/mockgen"
)

func generateCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file providing values for the flags below",
			EnvVars: []string{"MNISTMOCK_CONFIG"},
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "train-path",
			Value:   mockgen.DefaultTrainPath,
			Usage:   "Destination of the labeled training set",
			EnvVars: []string{"MNISTMOCK_TRAIN_PATH"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "test-path",
			Value:   mockgen.DefaultTestPath,
			Usage:   "Destination of the unlabeled test set",
			EnvVars: []string{"MNISTMOCK_TEST_PATH"},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:    "train-rows",
			Value:   mockgen.DefaultRows,
			Usage:   "Number of training rows",
			EnvVars: []string{"MNISTMOCK_TRAIN_ROWS"},
		}),
		altsrc.NewIntFlag(&cli.IntFlag{
			Name:    "test-rows",
			Value:   mockgen.DefaultRows,
			Usage:   "Number of test rows",
			EnvVars: []string{"MNISTMOCK_TEST_ROWS"},
		}),
		altsrc.NewBoolFlag(&cli.BoolFlag{
			Name:    "no-header",
			Usage:   "Omit the header row",
			EnvVars: []string{"MNISTMOCK_NO_HEADER"},
		}),
		altsrc.NewInt64Flag(&cli.Int64Flag{
			Name:    "seed",
			Usage:   "Random seed, 0 picks one from the clock",
			EnvVars: []string{"MNISTMOCK_SEED"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Postgres URL; when set a manifest is recorded for every file",
			EnvVars: []string{"MNISTMOCK_DATABASE_URL", "DATABASE_URL"},
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    "metrics-file",
			Usage:   "Write Prometheus metrics in text format to this file when done",
			EnvVars: []string{"MNISTMOCK_METRICS_FILE"},
		}),
	}

	return &cli.Command{
		Name:   "generate",
		Usage:  "Write a labeled training set and an unlabeled test set",
		Flags:  flags,
		Before: altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc("config")),
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	cfg := mockgen.Config{
		TrainPath: c.String("train-path"),
		TestPath:  c.String("test-path"),
		TrainRows: c.Int("train-rows"),
		TestRows:  c.Int("test-rows"),
		Header:    !c.Bool("no-header"),
		Seed:      c.Int64("seed"),
	}

	var opts []mockgen.Option
	if url := c.String("database-url"); url != "" {
		conn, err := db.Open(c.Context, db.Config{DatabaseURL: url})
		if err != nil {
			return fmt.Errorf("failed to open manifest database: %w", err)
		}
		defer conn.Close()
		opts = append(opts, mockgen.WithRecorder(conn))
	}

	p, err := mockgen.New(cfg, opts...)
	if err != nil {
		return err
	}

	_, runErr := p.Run(c.Context)

	if path := c.String("metrics-file"); path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			slog.Warn("Failed to write metrics file", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(c.App.Writer, mockgen.ConfirmationMessage(cfg))
	return nil
}
