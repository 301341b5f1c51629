package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/draganm/mnistmock/internal/csvio"
	"github.com/draganm/mnistmock/internal/models"
	"github.com/draganm/mnistmock/internal/utils"
)

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Parse dataset files and check their shape and value ranges",
		ArgsUsage: "<file> [file...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-header",
				Usage: "Files have no header row",
			},
			&cli.StringFlag{
				Name:  "labeled",
				Value: "auto",
				Usage: "Whether rows carry a label: true, false or auto (from the row width)",
			},
		},
		Action: runVerify,
	}
}

func runVerify(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	hasHeader := !c.Bool("no-header")

	for _, path := range c.Args().Slice() {
		ds, header, err := csvio.ReadFile(path, hasHeader)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		width := ds.Width()
		if width == 0 {
			width = len(header)
		}

		labeled, err := labeledFor(c.String("labeled"), width)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if hasHeader {
			if err := csvio.CheckHeader(header, width); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		if err := csvio.Check(ds, labeled); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		sum, err := utils.FileSHA256(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		fmt.Fprintf(c.App.Writer, "%s: ok rows=%d columns=%d labeled=%t sha256=%s\n", path, len(ds), width, labeled, sum)
	}
	return nil
}

func labeledFor(mode string, width int) (bool, error) {
	switch mode {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "auto":
		if _, err := csvio.Header(width); err != nil {
			return false, err
		}
		return width == models.LabeledWidth, nil
	default:
		return false, fmt.Errorf("invalid --labeled value %q", mode)
	}
}
