// source: copyfrom.go

package repository

import (
	"context"
)

// iteratorForCreateDataRows implements pgx.CopyFromSource.
type iteratorForCreateDataRows struct {
	rows                 []CreateDataRowsParams
	skippedFirstNextCall bool
}

func (r *iteratorForCreateDataRows) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForCreateDataRows) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].DataSourceID,
		r.rows[0].RowNumber,
		r.rows[0].JsonData,
		r.rows[0].CreatedAt,
	}, nil
}

func (r iteratorForCreateDataRows) Err() error {
	return nil
}

// CreateDataRows copies a batch of rows in a single COPY statement, so the
// batch is stored entirely or not at all.
func (q *Queries) CreateDataRows(ctx context.Context, arg []CreateDataRowsParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"data_rows"}, []string{"id", "data_source_id", "row_number", "json_data", "created_at"}, &iteratorForCreateDataRows{rows: arg})
}
