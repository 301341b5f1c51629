package csvio

import "errors"

var (
	// ErrEmptyDataset indicates a header was requested for a dataset with no rows
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInconsistentWidth indicates a row whose width differs from the first row
	ErrInconsistentWidth = errors.New("inconsistent row width")

	// ErrUnsupportedWidth indicates a row width that is neither labeled nor unlabeled
	ErrUnsupportedWidth = errors.New("unsupported row width")

	// ErrOutOfRange indicates a label or feature value outside its allowed range
	ErrOutOfRange = errors.New("value out of range")
)
