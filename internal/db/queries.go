package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Queries runs the dataset manifest statements against a DBTX
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q bound to tx
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Dataset is a row of the datasets table
type Dataset struct {
	ID        uuid.UUID
	Kind      string
	Path      string
	Rows      int32
	Columns   int32
	Labeled   bool
	Header    bool
	Seed      int64
	Sha256    string
	SizeBytes int64
	CreatedAt pgtype.Timestamptz
}

const datasetColumns = `id, kind, path, row_count, column_count, labeled, has_header, seed, sha256, size_bytes, created_at`

func scanDataset(row pgx.Row) (Dataset, error) {
	var d Dataset
	err := row.Scan(
		&d.ID,
		&d.Kind,
		&d.Path,
		&d.Rows,
		&d.Columns,
		&d.Labeled,
		&d.Header,
		&d.Seed,
		&d.Sha256,
		&d.SizeBytes,
		&d.CreatedAt,
	)
	return d, err
}

const createDataset = `-- name: CreateDataset :one
INSERT INTO datasets (id, kind, path, row_count, column_count, labeled, has_header, seed, sha256, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + datasetColumns

type CreateDatasetParams struct {
	ID        uuid.UUID
	Kind      string
	Path      string
	Rows      int32
	Columns   int32
	Labeled   bool
	Header    bool
	Seed      int64
	Sha256    string
	SizeBytes int64
	CreatedAt pgtype.Timestamptz
}

func (q *Queries) CreateDataset(ctx context.Context, arg CreateDatasetParams) (Dataset, error) {
	row := q.db.QueryRow(ctx, createDataset,
		arg.ID,
		arg.Kind,
		arg.Path,
		arg.Rows,
		arg.Columns,
		arg.Labeled,
		arg.Header,
		arg.Seed,
		arg.Sha256,
		arg.SizeBytes,
		arg.CreatedAt,
	)
	return scanDataset(row)
}

const getDataset = `-- name: GetDataset :one
SELECT ` + datasetColumns + ` FROM datasets WHERE id = $1`

func (q *Queries) GetDataset(ctx context.Context, id uuid.UUID) (Dataset, error) {
	return scanDataset(q.db.QueryRow(ctx, getDataset, id))
}

const listDatasets = `-- name: ListDatasets :many
SELECT ` + datasetColumns + ` FROM datasets
WHERE ($1::text = '' OR kind = $1::text)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

type ListDatasetsParams struct {
	Kind   string
	Limit  int32
	Offset int32
}

func (q *Queries) ListDatasets(ctx context.Context, arg ListDatasetsParams) ([]Dataset, error) {
	rows, err := q.db.Query(ctx, listDatasets, arg.Kind, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteDatasets = `-- name: DeleteDatasets :exec
DELETE FROM datasets`

func (q *Queries) DeleteDatasets(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteDatasets)
	return err
}
