package client

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/draganm/mnistmock/internal/csvio"
	"github.com/draganm/mnistmock/internal/generator"
	"github.com/draganm/mnistmock/internal/models"
)

// MockClient is a mock implementation of the Client interface for testing.
// Without overrides it generates datasets locally and serves manifests
// added with AddManifest.
type MockClient struct {
	mu        sync.RWMutex
	manifests []*models.Manifest

	// Configurable behavior
	DownloadDatasetFunc func(ctx context.Context, req DatasetRequest, w io.Writer) error
	ListDatasetsFunc    func(ctx context.Context, filter *ListDatasetsFilter) ([]*models.Manifest, error)
	GetDatasetFunc      func(ctx context.Context, id uuid.UUID) (*models.Manifest, error)
	HealthFunc          func(ctx context.Context) (*HealthResponse, error)
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// AddManifest makes m visible to ListDatasets and GetDataset
func (m *MockClient) AddManifest(manifest models.Manifest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manifests = append(m.manifests, &manifest)
}

// DownloadDataset writes a locally generated dataset to w
func (m *MockClient) DownloadDataset(ctx context.Context, req DatasetRequest, w io.Writer) error {
	if m.DownloadDatasetFunc != nil {
		return m.DownloadDatasetFunc(ctx, req, w)
	}

	if !req.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrBadRequest, req.Kind)
	}
	ds := generator.New(generator.NewSource(req.Seed)).GenerateKind(req.Kind, req.Rows)
	if err := csvio.Write(w, ds, req.Header); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// ListDatasets returns the added manifests matching filter
func (m *MockClient) ListDatasets(ctx context.Context, filter *ListDatasetsFilter) ([]*models.Manifest, error) {
	if m.ListDatasetsFunc != nil {
		return m.ListDatasetsFunc(ctx, filter)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.Manifest
	for _, manifest := range m.manifests {
		if filter != nil && filter.Kind != "" && manifest.Kind != filter.Kind {
			continue
		}
		result = append(result, manifest)
	}

	if filter != nil {
		if filter.Offset >= len(result) {
			return []*models.Manifest{}, nil
		}
		result = result[filter.Offset:]
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result, nil
}

// GetDataset returns an added manifest
func (m *MockClient) GetDataset(ctx context.Context, id uuid.UUID) (*models.Manifest, error) {
	if m.GetDatasetFunc != nil {
		return m.GetDatasetFunc(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, manifest := range m.manifests {
		if manifest.ID == id {
			return manifest, nil
		}
	}
	return nil, ErrDatasetNotFound
}

// Health reports a healthy server
func (m *MockClient) Health(ctx context.Context) (*HealthResponse, error) {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return &HealthResponse{Status: "healthy", Database: "disabled"}, nil
}
