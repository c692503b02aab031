package services

import (
	"context"
	"errors"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/csvparser"
	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateURL is returned when a data source with the same URL exists.
	ErrDuplicateURL = errors.New("data source url already exists")
)

// DataSourceService defines the interface for data source database operations
type DataSourceService interface {
	// GetByID gets a data source by ID
	GetByID(ctx context.Context, id string) (repository.DataSource, error)

	// GetByURL gets a data source by its CSV URL
	GetByURL(ctx context.Context, url string) (repository.DataSource, error)

	// List gets all data sources, newest first
	List(ctx context.Context) ([]repository.DataSource, error)

	// Create creates a new data source with row_count 0
	Create(ctx context.Context, arg repository.CreateDataSourceParams) (repository.DataSource, error)

	// UpdateRefresh records the outcome of an ingest
	UpdateRefresh(ctx context.Context, arg repository.UpdateDataSourceRefreshParams) error

	// Delete deletes a data source and, by cascade, its rows
	Delete(ctx context.Context, id string) error
}

// DataRowService defines the interface for data row database operations
type DataRowService interface {
	// InsertRows stores one batch; the batch is written entirely or not at all
	InsertRows(ctx context.Context, sourceID string, startRow int, records []csvparser.Record) error

	// DeleteBySource removes every row of a data source
	DeleteBySource(ctx context.Context, sourceID string) (int64, error)

	// ListBySource returns rows in CSV order; limit <= 0 returns all rows
	ListBySource(ctx context.Context, sourceID string, limit int) ([]repository.DataRow, error)

	// CountBySource returns the number of stored rows
	CountBySource(ctx context.Context, sourceID string) (int64, error)
}
