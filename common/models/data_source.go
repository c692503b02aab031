package models

import (
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/catalog"
	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// DataSource is the API view of a catalog entry.
type DataSource struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	URL         string               `json:"url"`
	Description mo.Option[string]    `json:"description" swaggertype:"string"`
	RowCount    int64                `json:"row_count"`
	LastRefresh mo.Option[time.Time] `json:"last_refresh" swaggertype:"string"`
	Columns     []string             `json:"columns"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewDataSource converts a stored source.
func NewDataSource(ds repository.DataSource) DataSource {
	description := mo.None[string]()
	if ds.Description.Valid {
		description = mo.Some(ds.Description.String)
	}
	lastRefresh := mo.None[time.Time]()
	if ds.LastRefresh.Valid {
		lastRefresh = mo.Some(ds.LastRefresh.Time)
	}
	return DataSource{
		ID:          ds.ID,
		Name:        ds.Name,
		URL:         ds.Url,
		Description: description,
		RowCount:    ds.RowCount,
		LastRefresh: lastRefresh,
		Columns:     lo.Ternary(ds.Columns == nil, []string{}, ds.Columns),
		CreatedAt:   ds.CreatedAt,
		UpdatedAt:   ds.UpdatedAt,
	}
}

// NewDataSources converts a list of stored sources.
func NewDataSources(list []repository.DataSource) []DataSource {
	return lo.Map(list, func(ds repository.DataSource, _ int) DataSource {
		return NewDataSource(ds)
	})
}

// CreateDataSourceRequest is the body of POST /datasources.
type CreateDataSourceRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// CreateDataSourceResponse is returned after a source is registered.
type CreateDataSourceResponse struct {
	DataSource DataSource           `json:"dataSource"`
	Ingest     catalog.IngestReport `json:"ingest"`
}

// RefreshResponse is returned by a synchronous refresh.
type RefreshResponse struct {
	Message      string               `json:"message"`
	DataSource   DataSource           `json:"dataSource"`
	InsertedRows int                  `json:"insertedRows"`
	Ingest       catalog.IngestReport `json:"ingest"`
}

// RefreshQueuedResponse is returned when a refresh is queued.
type RefreshQueuedResponse struct {
	Message      string `json:"message"`
	DataSourceID string `json:"dataSourceId"`
	RequestID    string `json:"requestId"`
}

// InitializeResponse reports the seeding outcome.
type InitializeResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Results []catalog.SeedResult `json:"results"`
}

// SetupResponse carries the schema DDL.
type SetupResponse struct {
	Message string `json:"message"`
	SQL     string `json:"sql"`
}
