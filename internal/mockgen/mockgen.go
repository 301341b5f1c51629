package mockgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/draganm/mnistmock/internal/csvio"
	"github.com/draganm/mnistmock/internal/generator"
	"github.com/draganm/mnistmock/internal/metrics"
	"github.com/draganm/mnistmock/internal/models"
)

const (
	DefaultTrainPath = "./mnist_mock_train.csv"
	DefaultTestPath  = "./mnist_mock_test.csv"
	DefaultRows      = 10
)

// Config describes one generation run
type Config struct {
	TrainPath string
	TestPath  string
	TrainRows int
	TestRows  int
	Header    bool
	// Seed for the random source; 0 picks one from the clock.
	Seed int64
}

// DefaultConfig returns the configuration of a plain run
func DefaultConfig() Config {
	return Config{
		TrainPath: DefaultTrainPath,
		TestPath:  DefaultTestPath,
		TrainRows: DefaultRows,
		TestRows:  DefaultRows,
		Header:    true,
	}
}

// ManifestRecorder persists manifests of written files
type ManifestRecorder interface {
	RecordManifest(ctx context.Context, m models.Manifest) error
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithRecorder stores a manifest for every written file
func WithRecorder(r ManifestRecorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithSource replaces the seeded source. Manifests then report seed 0.
func WithSource(src generator.Source) Option {
	return func(p *Pipeline) {
		p.src = src
		p.seed = 0
	}
}

// WithClock overrides the time used for manifest timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline generates the train and test files
type Pipeline struct {
	cfg      Config
	src      generator.Source
	seed     int64
	recorder ManifestRecorder
	now      func() time.Time
}

// New creates a pipeline for cfg
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.TrainPath == "" || cfg.TestPath == "" {
		return nil, fmt.Errorf("train and test paths are required")
	}
	if cfg.TrainPath == cfg.TestPath {
		return nil, fmt.Errorf("train and test paths must differ: %s", cfg.TrainPath)
	}
	if cfg.TrainRows < 0 || cfg.TestRows < 0 {
		return nil, fmt.Errorf("row counts must not be negative: train=%d test=%d", cfg.TrainRows, cfg.TestRows)
	}

	src := generator.NewSource(cfg.Seed)
	p := &Pipeline{
		cfg:  cfg,
		src:  src,
		seed: src.Seed(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Seed returns the seed of the random source, 0 for an injected source
func (p *Pipeline) Seed() int64 {
	return p.seed
}

// Run writes the train file, then the test file, and returns their
// manifests in that order. The first error stops the run.
func (p *Pipeline) Run(ctx context.Context) ([]models.Manifest, error) {
	runID := uuid.New()
	log := slog.With("run_id", runID)

	log.Info("Generating mock dataset",
		"train_path", p.cfg.TrainPath,
		"train_rows", p.cfg.TrainRows,
		"test_path", p.cfg.TestPath,
		"test_rows", p.cfg.TestRows,
		"header", p.cfg.Header,
		"seed", p.seed,
	)

	g := generator.New(p.src)
	targets := []struct {
		kind models.Kind
		path string
		rows int
	}{
		{models.KindTrain, p.cfg.TrainPath, p.cfg.TrainRows},
		{models.KindTest, p.cfg.TestPath, p.cfg.TestRows},
	}

	manifests := make([]models.Manifest, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return manifests, err
		}

		m, err := p.writeOne(ctx, g, target.kind, target.path, target.rows)
		if err != nil {
			log.Error("Failed to write dataset", "kind", target.kind, "path", target.path, "error", err)
			return manifests, err
		}
		manifests = append(manifests, m)
	}

	log.Info("Mock dataset generated", "files", len(manifests))
	return manifests, nil
}

func (p *Pipeline) writeOne(ctx context.Context, g *generator.Generator, kind models.Kind, path string, rows int) (models.Manifest, error) {
	start := time.Now()
	ds := g.GenerateKind(kind, rows)
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	metrics.RowsGenerated.WithLabelValues(string(kind)).Add(float64(len(ds)))

	start = time.Now()
	digest, err := csvio.WriteFile(path, ds, p.cfg.Header)
	metrics.RecordWrite(string(kind), err, digest.Size, time.Since(start).Seconds())
	if err != nil {
		return models.Manifest{}, fmt.Errorf("%s dataset: %w", kind, err)
	}

	columns := models.FeatureCount
	if kind.Labeled() {
		columns = models.LabeledWidth
	}

	m := models.Manifest{
		ID:        uuid.New(),
		Kind:      kind,
		Path:      path,
		Rows:      len(ds),
		Columns:   columns,
		Labeled:   kind.Labeled(),
		Header:    p.cfg.Header,
		Seed:      p.seed,
		SHA256:    digest.SHA256,
		SizeBytes: digest.Size,
		CreatedAt: p.now().UTC(),
	}

	slog.Info("Dataset written",
		"kind", kind,
		"path", path,
		"rows", m.Rows,
		"columns", m.Columns,
		"sha256", m.SHA256,
	)

	if p.recorder != nil {
		if err := p.recorder.RecordManifest(ctx, m); err != nil {
			return m, fmt.Errorf("failed to record manifest for %s: %w", path, err)
		}
	}
	return m, nil
}

// ConfirmationMessage is printed once both files are written
func ConfirmationMessage(cfg Config) string {
	return fmt.Sprintf("Mock training and test files created:\n- %s\n- %s", cfg.TrainPath, cfg.TestPath)
}
