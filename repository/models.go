package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type DataRow struct {
	ID           string    `json:"id"`
	DataSourceID string    `json:"data_source_id"`
	RowNumber    int64     `json:"row_number"`
	JsonData     []byte    `json:"json_data"`
	CreatedAt    time.Time `json:"created_at"`
}

type DataSource struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Url         string             `json:"url"`
	Description pgtype.Text        `json:"description"`
	RowCount    int64              `json:"row_count"`
	LastRefresh pgtype.Timestamptz `json:"last_refresh"`
	Columns     []string           `json:"columns"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
