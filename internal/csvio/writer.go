package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/draganm/mnistmock/internal/models"
	"github.com/draganm/mnistmock/internal/utils"
)

// Delimiter separates fields in every file this package writes
const Delimiter = ','

// Write serializes ds to w, one row per line, optionally preceded by a
// header derived from the first row.
func Write(w io.Writer, ds models.Dataset, withHeader bool) error {
	var header []string
	if withHeader {
		h, err := HeaderFor(ds)
		if err != nil {
			return err
		}
		header = h
	}

	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	if header != nil {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	width := ds.Width()
	record := make([]string, width)
	for i, row := range ds {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrInconsistentWidth, i, len(row), width)
		}
		for j, v := range row {
			record[j] = strconv.Itoa(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	return nil
}

// WriteFile writes ds to path and returns the digest of what was written.
// The rows go to a temporary file that is renamed over path once complete,
// so path is either fully replaced or left untouched.
func WriteFile(path string, ds models.Dataset, withHeader bool) (utils.Digest, error) {
	if withHeader {
		// fail before touching the filesystem
		if _, err := HeaderFor(ds); err != nil {
			return utils.Digest{}, err
		}
	}

	digest, err := utils.WriteFileAtomic(path, 0644, func(w io.Writer) error {
		return Write(w, ds, withHeader)
	})
	if err != nil {
		return utils.Digest{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Debug("Dataset file written",
		"path", path,
		"rows", len(ds),
		"columns", ds.Width(),
		"header", withHeader,
		"size", digest.Size,
	)
	return digest, nil
}
