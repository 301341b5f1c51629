package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/draganm/mnistmock/internal/metrics"
	"github.com/draganm/mnistmock/internal/models"
)

// ErrNotFound is returned when no manifest has the requested ID
var ErrNotFound = errors.New("manifest not found")

// RecordManifest stores m
func (c *Connection) RecordManifest(ctx context.Context, m models.Manifest) error {
	start := time.Now()
	_, err := c.CreateDataset(ctx, CreateDatasetParams{
		ID:        m.ID,
		Kind:      string(m.Kind),
		Path:      m.Path,
		Rows:      int32(m.Rows),
		Columns:   int32(m.Columns),
		Labeled:   m.Labeled,
		Header:    m.Header,
		Seed:      m.Seed,
		Sha256:    m.SHA256,
		SizeBytes: m.SizeBytes,
		CreatedAt: pgtype.Timestamptz{Time: m.CreatedAt, Valid: true},
	})
	metrics.RecordQuery("create_dataset", err, time.Since(start).Seconds())
	return err
}

// GetManifest loads a single manifest
func (c *Connection) GetManifest(ctx context.Context, id uuid.UUID) (models.Manifest, error) {
	start := time.Now()
	d, err := c.GetDataset(ctx, id)
	metrics.RecordQuery("get_dataset", err, time.Since(start).Seconds())
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Manifest{}, ErrNotFound
	}
	if err != nil {
		return models.Manifest{}, err
	}
	return datasetToModel(d), nil
}

// ListManifests returns manifests newest first. An empty kind matches all.
func (c *Connection) ListManifests(ctx context.Context, kind models.Kind, limit, offset int) ([]models.Manifest, error) {
	start := time.Now()
	rows, err := c.ListDatasets(ctx, ListDatasetsParams{
		Kind:   string(kind),
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	metrics.RecordQuery("list_datasets", err, time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	out := make([]models.Manifest, len(rows))
	for i, d := range rows {
		out[i] = datasetToModel(d)
	}
	return out, nil
}

func datasetToModel(d Dataset) models.Manifest {
	m := models.Manifest{
		ID:        d.ID,
		Kind:      models.Kind(d.Kind),
		Path:      d.Path,
		Rows:      int(d.Rows),
		Columns:   int(d.Columns),
		Labeled:   d.Labeled,
		Header:    d.Header,
		Seed:      d.Seed,
		SHA256:    d.Sha256,
		SizeBytes: d.SizeBytes,
	}
	if d.CreatedAt.Valid {
		m.CreatedAt = d.CreatedAt.Time
	}
	return m
}
