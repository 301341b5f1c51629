package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/draganm/mnistmock/internal/models"
	"github.com/draganm/mnistmock/internal/utils"
	"github.com/draganm/mnistmock/pkg/client"
)

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download a generated dataset from a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server-url",
				Value:   "http://localhost:8080",
				Usage:   "Base URL of the mnistmock server",
				EnvVars: []string{"MNISTMOCK_SERVER_URL"},
			},
			&cli.StringFlag{
				Name:  "kind",
				Value: string(models.KindTrain),
				Usage: "Dataset kind: train or test",
			},
			&cli.IntFlag{
				Name:  "rows",
				Value: 10,
				Usage: "Number of rows",
			},
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "Omit the header row",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Random seed, 0 lets the server pick",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Destination file",
				Required: true,
			},
		},
		Action: runFetch,
	}
}

func runFetch(c *cli.Context) error {
	kind := models.Kind(c.String("kind"))
	if !kind.Valid() {
		return fmt.Errorf("unknown dataset kind %q", kind)
	}

	cl := client.NewClient(c.String("server-url"))
	req := client.DatasetRequest{
		Kind:   kind,
		Rows:   c.Int("rows"),
		Header: !c.Bool("no-header"),
		Seed:   c.Int64("seed"),
	}

	out := c.String("output")
	digest, err := utils.WriteFileAtomic(out, 0o644, func(w io.Writer) error {
		return cl.DownloadDataset(c.Context, req, w)
	})
	if err != nil {
		return err
	}

	slog.Info("Dataset downloaded", "path", out, "kind", kind, "size", digest.Size)
	fmt.Fprintf(c.App.Writer, "%s sha256=%s size=%d\n", out, digest.SHA256, digest.Size)
	return nil
}
