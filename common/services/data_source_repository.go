package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DataSourceRepository is a PostgreSQL implementation of DataSourceService
type DataSourceRepository struct {
	db *repository.Queries
}

// NewDataSourceRepository creates a new PostgreSQL DataSourceRepository
func NewDataSourceRepository(db *repository.Queries) DataSourceService {
	return &DataSourceRepository{
		db: db,
	}
}

// GetByID gets a data source by ID
func (r *DataSourceRepository) GetByID(ctx context.Context, id string) (repository.DataSource, error) {
	dataSource, err := r.db.GetDataSourceById(ctx, id)
	if err != nil {
		return repository.DataSource{}, mapNoRows(err)
	}

	return dataSource, nil
}

// GetByURL gets a data source by URL
func (r *DataSourceRepository) GetByURL(ctx context.Context, url string) (repository.DataSource, error) {
	dataSource, err := r.db.GetDataSourceByUrl(ctx, url)
	if err != nil {
		return repository.DataSource{}, mapNoRows(err)
	}

	return dataSource, nil
}

// List gets all data sources
func (r *DataSourceRepository) List(ctx context.Context) ([]repository.DataSource, error) {
	dataSources, err := r.db.ListDataSources(ctx)
	if err != nil {
		return nil, err
	}

	if dataSources == nil {
		dataSources = []repository.DataSource{}
	}
	return dataSources, nil
}

// Create creates a new data source
func (r *DataSourceRepository) Create(ctx context.Context, arg repository.CreateDataSourceParams) (repository.DataSource, error) {
	dataSource, err := r.db.CreateDataSource(ctx, arg)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.DataSource{}, fmt.Errorf("%w: %s", ErrDuplicateURL, arg.Url)
		}
		return repository.DataSource{}, err
	}

	return dataSource, nil
}

// UpdateRefresh updates row count, last refresh time and columns
func (r *DataSourceRepository) UpdateRefresh(ctx context.Context, arg repository.UpdateDataSourceRefreshParams) error {
	n, err := r.db.UpdateDataSourceRefresh(ctx, arg)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a data source
func (r *DataSourceRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.DeleteDataSource(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
