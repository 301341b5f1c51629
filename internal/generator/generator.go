package generator

import (
	"github.com/draganm/mnistmock/internal/models"
)

// Generator builds random MNIST-shaped datasets
type Generator struct {
	src Source
}

// New creates a generator drawing from src
func New(src Source) *Generator {
	return &Generator{src: src}
}

// Row returns one row of FeatureCount pixel values, prefixed with a label
// when withLabel is set.
func (g *Generator) Row(withLabel bool) models.Row {
	width := models.FeatureCount
	if withLabel {
		width = models.LabeledWidth
	}

	row := make(models.Row, 0, width)
	if withLabel {
		row = append(row, g.src.IntRange(models.LabelMin, models.LabelMax))
	}
	for i := 0; i < models.FeatureCount; i++ {
		row = append(row, g.src.IntRange(models.FeatureMin, models.FeatureMax))
	}
	return row
}

// Generate returns n rows. A negative n yields an empty dataset.
func (g *Generator) Generate(n int, withLabel bool) models.Dataset {
	if n < 0 {
		n = 0
	}
	ds := make(models.Dataset, 0, n)
	for i := 0; i < n; i++ {
		ds = append(ds, g.Row(withLabel))
	}
	return ds
}

// GenerateKind generates n rows shaped for the given kind
func (g *Generator) GenerateKind(kind models.Kind, n int) models.Dataset {
	return g.Generate(n, kind.Labeled())
}
