package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/csvparser"
	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DataRowRepository is a PostgreSQL implementation of DataRowService
type DataRowRepository struct {
	db *repository.Queries
}

// NewDataRowRepository creates a new PostgreSQL DataRowRepository
func NewDataRowRepository(db *repository.Queries) DataRowService {
	return &DataRowRepository{
		db: db,
	}
}

// BuildRowParams converts records into insert parameters numbered from startRow.
func BuildRowParams(sourceID string, startRow int, records []csvparser.Record, now time.Time) ([]repository.CreateDataRowsParams, error) {
	params := make([]repository.CreateDataRowsParams, 0, len(records))
	for i, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", startRow+i, err)
		}
		params = append(params, repository.CreateDataRowsParams{
			ID:           uuid.NewString(),
			DataSourceID: sourceID,
			RowNumber:    int64(startRow + i),
			JsonData:     data,
			CreatedAt:    now,
		})
	}
	return params, nil
}

// InsertRows copies a batch with a single COPY statement
func (r *DataRowRepository) InsertRows(ctx context.Context, sourceID string, startRow int, records []csvparser.Record) error {
	if len(records) == 0 {
		return nil
	}

	params, err := BuildRowParams(sourceID, startRow, records, time.Now())
	if err != nil {
		return err
	}

	n, err := r.db.CreateDataRows(ctx, params)
	if err != nil {
		return fmt.Errorf("copying rows: %w", err)
	}
	if int(n) != len(params) {
		return fmt.Errorf("copied %d of %d rows", n, len(params))
	}
	return nil
}

// DeleteBySource deletes every row of a data source
func (r *DataRowRepository) DeleteBySource(ctx context.Context, sourceID string) (int64, error) {
	return r.db.DeleteDataRowsBySource(ctx, sourceID)
}

// ListBySource lists rows in CSV order
func (r *DataRowRepository) ListBySource(ctx context.Context, sourceID string, limit int) ([]repository.DataRow, error) {
	var (
		rows []repository.DataRow
		err  error
	)
	if limit > 0 {
		rows, err = r.db.ListDataRowsBySourceLimit(ctx, repository.ListDataRowsBySourceLimitParams{
			DataSourceID: sourceID,
			Limit:        int32(limit),
		})
	} else {
		rows, err = r.db.ListDataRowsBySource(ctx, sourceID)
	}
	if err != nil {
		return nil, err
	}
	return lo.Ternary(rows == nil, []repository.DataRow{}, rows), nil
}

// CountBySource counts rows of a data source
func (r *DataRowRepository) CountBySource(ctx context.Context, sourceID string) (int64, error) {
	return r.db.CountDataRowsBySource(ctx, sourceID)
}
