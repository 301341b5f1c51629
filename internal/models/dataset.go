package models

import (
	"time"

	"github.com/google/uuid"
)

// Shape of an MNIST-like row
const (
	FeatureCount  = 784
	LabeledWidth  = FeatureCount + 1
	LabelMin      = 0
	LabelMax      = 9
	FeatureMin    = 0
	FeatureMax    = 255
	LabelColumn   = "label"
	FeaturePrefix = "pixel"
)

// Kind identifies which half of a mock dataset a file holds
type Kind string

const (
	KindTrain Kind = "train"
	KindTest  Kind = "test"
)

// Labeled reports whether rows of this kind carry a leading label
func (k Kind) Labeled() bool {
	return k == KindTrain
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k == KindTrain || k == KindTest
}

// Row is one generated record. A labeled row starts with the label.
type Row []int

// Labeled reports whether the row has the labeled width
func (r Row) Labeled() bool {
	return len(r) == LabeledWidth
}

// Features returns the feature values without the label
func (r Row) Features() []int {
	if r.Labeled() {
		return r[1:]
	}
	return r
}

// Dataset is an ordered collection of rows of the same width
type Dataset []Row

// Width returns the width of the first row, or 0 for an empty dataset
func (d Dataset) Width() int {
	if len(d) == 0 {
		return 0
	}
	return len(d[0])
}

// Manifest describes one dataset file written to disk
type Manifest struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Labeled   bool      `json:"labeled"`
	Header    bool      `json:"header"`
	Seed      int64     `json:"seed"`
	SHA256    string    `json:"sha256"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
