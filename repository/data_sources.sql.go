// source: data_sources.sql

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const createDataSource = `-- name: CreateDataSource :one
INSERT INTO data_sources (id, name, url, description, row_count, columns, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, '{}', $5, $6)
RETURNING id, name, url, description, row_count, last_refresh, columns, created_at, updated_at
`

type CreateDataSourceParams struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Url         string      `json:"url"`
	Description pgtype.Text `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (q *Queries) CreateDataSource(ctx context.Context, arg CreateDataSourceParams) (DataSource, error) {
	row := q.db.QueryRow(ctx, createDataSource,
		arg.ID,
		arg.Name,
		arg.Url,
		arg.Description,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i DataSource
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Url,
		&i.Description,
		&i.RowCount,
		&i.LastRefresh,
		&i.Columns,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteDataSource = `-- name: DeleteDataSource :execrows
DELETE FROM data_sources WHERE id = $1
`

func (q *Queries) DeleteDataSource(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteDataSource, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getDataSourceById = `-- name: GetDataSourceById :one
SELECT id, name, url, description, row_count, last_refresh, columns, created_at, updated_at
FROM data_sources
WHERE id = $1
`

func (q *Queries) GetDataSourceById(ctx context.Context, id string) (DataSource, error) {
	row := q.db.QueryRow(ctx, getDataSourceById, id)
	var i DataSource
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Url,
		&i.Description,
		&i.RowCount,
		&i.LastRefresh,
		&i.Columns,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDataSourceByUrl = `-- name: GetDataSourceByUrl :one
SELECT id, name, url, description, row_count, last_refresh, columns, created_at, updated_at
FROM data_sources
WHERE url = $1
`

func (q *Queries) GetDataSourceByUrl(ctx context.Context, url string) (DataSource, error) {
	row := q.db.QueryRow(ctx, getDataSourceByUrl, url)
	var i DataSource
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Url,
		&i.Description,
		&i.RowCount,
		&i.LastRefresh,
		&i.Columns,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDataSources = `-- name: ListDataSources :many
SELECT id, name, url, description, row_count, last_refresh, columns, created_at, updated_at
FROM data_sources
ORDER BY created_at DESC
`

func (q *Queries) ListDataSources(ctx context.Context) ([]DataSource, error) {
	rows, err := q.db.Query(ctx, listDataSources)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DataSource
	for rows.Next() {
		var i DataSource
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Url,
			&i.Description,
			&i.RowCount,
			&i.LastRefresh,
			&i.Columns,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateDataSourceRefresh = `-- name: UpdateDataSourceRefresh :execrows
UPDATE data_sources
SET row_count = $2,
    last_refresh = $3,
    columns = $4,
    updated_at = $5
WHERE id = $1
`

type UpdateDataSourceRefreshParams struct {
	ID          string             `json:"id"`
	RowCount    int64              `json:"row_count"`
	LastRefresh pgtype.Timestamptz `json:"last_refresh"`
	Columns     []string           `json:"columns"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (q *Queries) UpdateDataSourceRefresh(ctx context.Context, arg UpdateDataSourceRefreshParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateDataSourceRefresh,
		arg.ID,
		arg.RowCount,
		arg.LastRefresh,
		arg.Columns,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
