// source: data_rows.sql

package repository

import (
	"context"
	"time"
)

const countDataRowsBySource = `-- name: CountDataRowsBySource :one
SELECT count(*) FROM data_rows WHERE data_source_id = $1
`

func (q *Queries) CountDataRowsBySource(ctx context.Context, dataSourceID string) (int64, error) {
	row := q.db.QueryRow(ctx, countDataRowsBySource, dataSourceID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type CreateDataRowsParams struct {
	ID           string    `json:"id"`
	DataSourceID string    `json:"data_source_id"`
	RowNumber    int64     `json:"row_number"`
	JsonData     []byte    `json:"json_data"`
	CreatedAt    time.Time `json:"created_at"`
}

const deleteDataRowsBySource = `-- name: DeleteDataRowsBySource :execrows
DELETE FROM data_rows WHERE data_source_id = $1
`

func (q *Queries) DeleteDataRowsBySource(ctx context.Context, dataSourceID string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteDataRowsBySource, dataSourceID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listDataRowsBySource = `-- name: ListDataRowsBySource :many
SELECT id, data_source_id, row_number, json_data, created_at
FROM data_rows
WHERE data_source_id = $1
ORDER BY row_number ASC, created_at ASC
`

func (q *Queries) ListDataRowsBySource(ctx context.Context, dataSourceID string) ([]DataRow, error) {
	rows, err := q.db.Query(ctx, listDataRowsBySource, dataSourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DataRow
	for rows.Next() {
		var i DataRow
		if err := rows.Scan(
			&i.ID,
			&i.DataSourceID,
			&i.RowNumber,
			&i.JsonData,
			&i.CreatedAt,
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

const listDataRowsBySourceLimit = `-- name: ListDataRowsBySourceLimit :many
SELECT id, data_source_id, row_number, json_data, created_at
FROM data_rows
WHERE data_source_id = $1
ORDER BY row_number ASC, created_at ASC
LIMIT $2
`

type ListDataRowsBySourceLimitParams struct {
	DataSourceID string `json:"data_source_id"`
	Limit        int32  `json:"limit"`
}

func (q *Queries) ListDataRowsBySourceLimit(ctx context.Context, arg ListDataRowsBySourceLimitParams) ([]DataRow, error) {
	rows, err := q.db.Query(ctx, listDataRowsBySourceLimit, arg.DataSourceID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DataRow
	for rows.Next() {
		var i DataRow
		if err := rows.Scan(
			&i.ID,
			&i.DataSourceID,
			&i.RowNumber,
			&i.JsonData,
			&i.CreatedAt,
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
