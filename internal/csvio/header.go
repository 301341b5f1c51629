package csvio

import (
	"fmt"
	"strconv"

	"github.com/draganm/mnistmock/internal/models"
)

// Header returns the column names for rows of the given width: the label
// column followed by pixel0..pixel783 for labeled rows, only the pixel
// columns for unlabeled ones.
func Header(width int) ([]string, error) {
	switch width {
	case models.LabeledWidth:
		return append([]string{models.LabelColumn}, featureColumns()...), nil
	case models.FeatureCount:
		return featureColumns(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedWidth, width)
	}
}

// HeaderFor derives the header from the first row of ds
func HeaderFor(ds models.Dataset) ([]string, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	return Header(ds.Width())
}

func featureColumns() []string {
	cols := make([]string, models.FeatureCount)
	for i := range cols {
		cols[i] = models.FeaturePrefix + strconv.Itoa(i)
	}
	return cols
}
