package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/draganm/mnistmock/internal/models"
)

// Read parses delimited rows from r. When hasHeader is set the first line
// is returned as the header instead of being parsed as data. Every value
// must be an integer and every row must be as wide as the first one.
func Read(r io.Reader, hasHeader bool) (models.Dataset, []string, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var header []string
	if hasHeader {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyDataset
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read header: %w", err)
		}
		header = append([]string(nil), rec...)
	}

	var ds models.Dataset
	width := len(header)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", len(ds), err)
		}

		if width == 0 {
			width = len(rec)
		}
		if len(rec) != width {
			return nil, nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrInconsistentWidth, len(ds), len(rec), width)
		}

		row := make(models.Row, len(rec))
		for i, cell := range rec {
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %d: invalid value %q: %w", len(ds), i, cell, err)
			}
			row[i] = v
		}
		ds = append(ds, row)
	}

	return ds, header, nil
}

// ReadFile opens path and parses it with Read
func ReadFile(path string, hasHeader bool) (models.Dataset, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, hasHeader)
}

// Check verifies that every row of ds has the width implied by labeled and
// that labels and features lie within their ranges.
func Check(ds models.Dataset, labeled bool) error {
	want := models.FeatureCount
	if labeled {
		want = models.LabeledWidth
	}

	for i, row := range ds {
		if len(row) != want {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrUnsupportedWidth, i, len(row), want)
		}
		features := row
		if labeled {
			if row[0] < models.LabelMin || row[0] > models.LabelMax {
				return fmt.Errorf("%w: row %d label %d", ErrOutOfRange, i, row[0])
			}
			features = row[1:]
		}
		for j, v := range features {
			if v < models.FeatureMin || v > models.FeatureMax {
				return fmt.Errorf("%w: row %d feature %d value %d", ErrOutOfRange, i, j, v)
			}
		}
	}
	return nil
}

// CheckHeader verifies that header matches the one Header would produce for width
func CheckHeader(header []string, width int) error {
	want, err := Header(width)
	if err != nil {
		return err
	}
	if len(header) != len(want) {
		return fmt.Errorf("%w: header has %d columns, rows have %d", ErrInconsistentWidth, len(header), width)
	}
	for i := range want {
		if header[i] != want[i] {
			return fmt.Errorf("unexpected column %d: got %q, want %q", i, header[i], want[i])
		}
	}
	return nil
}
