package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Table is a set of stored rows with their column order.
type Table struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Preview returns the first rows of a source in CSV order. A source without
// rows yields empty columns and rows.
func (c *Coordinator) Preview(ctx context.Context, id string) (Table, error) {
	source, err := c.Get(ctx, id)
	if err != nil {
		return Table{}, err
	}

	rows, err := c.rows.ListBySource(ctx, id, c.previewLimit)
	if err != nil {
		return Table{}, internalError("Failed to fetch preview data", err)
	}
	return buildTable(source, rows)
}

// Export returns every row of a source. A source without rows is reported
// as not found so no empty file is produced.
func (c *Coordinator) Export(ctx context.Context, id string) (Table, error) {
	source, err := c.Get(ctx, id)
	if err != nil {
		return Table{}, err
	}

	rows, err := c.rows.ListBySource(ctx, id, 0)
	if err != nil {
		return Table{}, internalError("Failed to fetch data", err)
	}
	if len(rows) == 0 {
		return Table{}, NotFoundError("No data to export", nil)
	}
	return buildTable(source, rows)
}

func buildTable(source repository.DataSource, rows []repository.DataRow) (Table, error) {
	table := Table{Columns: []string{}, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		var values map[string]string
		if err := json.Unmarshal(row.JsonData, &values); err != nil {
			return Table{}, internalError("Failed to decode row", fmt.Errorf("row %s: %w", row.ID, err))
		}
		table.Rows = append(table.Rows, values)
	}
	if len(table.Rows) == 0 {
		return table, nil
	}

	// columns recorded at ingest keep CSV order; older rows fall back to the
	// keys of the first row
	if cols := lo.Uniq(source.Columns); len(cols) > 0 {
		table.Columns = cols
	} else {
		table.Columns = lo.Keys(table.Rows[0])
		sort.Strings(table.Columns)
	}
	return table, nil
}

// WriteCSV writes the header line followed by every row. Values containing
// a comma, quote or newline are quoted with inner quotes doubled.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename is the download name for a source export.
func ExportFilename(id string) string {
	return fmt.Sprintf("export_%s.csv", id)
}

// ObjectStore uploads export archives.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)
	SignedURL(ctx context.Context, objectName string) (string, error)
}

// ArchiveResult locates an uploaded export.
type ArchiveResult struct {
	Object    string    `json:"object"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive uploads the CSV export of a source and returns a signed URL to it.
func (c *Coordinator) Archive(ctx context.Context, id string) (ArchiveResult, error) {
	if c.archive == nil {
		return ArchiveResult{}, &Error{Kind: KindUnavailable, Message: "Export archive is not configured", Err: ErrArchiveDisabled}
	}

	table, err := c.Export(ctx, id)
	if err != nil {
		return ArchiveResult{}, err
	}

	now := c.now().UTC()
	objectName := fmt.Sprintf("%s/%s_%s", id, now.Format("20060102T150405Z"), ExportFilename(id))

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(table.WriteCSV(pw))
	}()

	object, err := c.archive.Upload(ctx, objectName, pr, "text/csv; charset=utf-8")
	_ = pr.Close()
	if err != nil {
		log.Error().Err(err).Str("dataSourceID", id).Msg("Failed to upload export")
		return ArchiveResult{}, internalError("Failed to upload export", err)
	}

	url, err := c.archive.SignedURL(ctx, object)
	if err != nil {
		return ArchiveResult{}, internalError("Failed to sign export url", err)
	}

	log.Info().Str("dataSourceID", id).Str("object", object).Int("rows", len(table.Rows)).Msg("Export archived")
	return ArchiveResult{Object: object, URL: url, Rows: len(table.Rows), CreatedAt: now}, nil
}
