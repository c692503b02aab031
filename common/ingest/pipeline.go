// Package ingest downloads a remote CSV document and writes its records to
// storage in ordered, fixed-size batches.
package ingest

import (
	"context"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/csvparser"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DefaultBatchSize is the number of records submitted per insert.
const DefaultBatchSize = 100

// RowWriter persists one batch of records for a data source. startRow is
// the position of the first record of the batch within the parsed document.
// A batch is all-or-nothing from the pipeline's point of view.
type RowWriter interface {
	InsertRows(ctx context.Context, sourceID string, startRow int, records []csvparser.Record) error
}

// BatchFailure records a batch whose insert failed.
type BatchFailure struct {
	BatchIndex int
	Size       int
	Err        error
}

// Result summarises an ingest. Failures is empty on full success.
type Result struct {
	InsertedCount int
	ParsedCount   int
	BatchCount    int
	Columns       []string
	Failures      []BatchFailure
}

// Partial reports whether at least one batch failed.
func (r Result) Partial() bool {
	return len(r.Failures) > 0
}

// Pipeline fetches, parses and stores CSV documents.
type Pipeline struct {
	fetcher   Fetcher
	writer    RowWriter
	batchSize int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBatchSize overrides DefaultBatchSize. Non-positive values are ignored.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

// NewPipeline creates a pipeline.
func NewPipeline(fetcher Fetcher, writer RowWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:   fetcher,
		writer:    writer,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BatchSize returns the configured batch size.
func (p *Pipeline) BatchSize() int {
	return p.batchSize
}

// Ingest fetches sourceURL and stores its records under sourceID. A fetch
// failure aborts before anything is written and is returned as *FetchError.
// Batch failures do not abort; they are collected in the result.
func (p *Pipeline) Ingest(ctx context.Context, sourceURL, sourceID string) (Result, error) {
	text, err := p.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		log.Error().Err(err).Str("dataSourceID", sourceID).Str("url", sourceURL).Msg("Failed to fetch CSV")
		return Result{}, err
	}

	return p.IngestText(ctx, text, sourceID), nil
}

// IngestText parses already fetched text and stores it. Batches are written
// one after another in document order.
func (p *Pipeline) IngestText(ctx context.Context, text, sourceID string) Result {
	doc := csvparser.ParseDocument(text)
	batches := lo.Chunk(doc.Records, p.batchSize)

	result := Result{
		ParsedCount: doc.Len(),
		BatchCount:  len(batches),
		Columns:     doc.Headers,
	}

	for i, batch := range batches {
		startRow := i * p.batchSize
		if err := p.writer.InsertRows(ctx, sourceID, startRow, batch); err != nil {
			log.Error().
				Err(err).
				Str("dataSourceID", sourceID).
				Int("batchIndex", i).
				Int("batchSize", len(batch)).
				Msg("Error inserting batch")
			result.Failures = append(result.Failures, BatchFailure{
				BatchIndex: i,
				Size:       len(batch),
				Err:        err,
			})
			continue
		}
		result.InsertedCount += len(batch)
	}

	log.Info().
		Str("dataSourceID", sourceID).
		Int("parsed", result.ParsedCount).
		Int("inserted", result.InsertedCount).
		Int("batches", result.BatchCount).
		Int("failedBatches", len(result.Failures)).
		Msg("CSV ingested")

	return result
}
