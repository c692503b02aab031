// Package catalog implements the data source lifecycle: registration,
// refresh, preview, export and seeding. Every path that loads CSV data goes
// through an ingest.Pipeline.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/ingest"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/services"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/work"
	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	DefaultPreviewLimit = 10

	TriggerCreate  = "create"
	TriggerRefresh = "refresh"
)

// IngestReport summarises the rows written by one ingest.
type IngestReport struct {
	InsertedCount int   `json:"inserted_rows"`
	ParsedCount   int   `json:"parsed_rows"`
	BatchCount    int   `json:"batches"`
	FailedBatches []int `json:"failed_batches"`
}

func newIngestReport(r ingest.Result) IngestReport {
	return IngestReport{
		InsertedCount: r.InsertedCount,
		ParsedCount:   r.ParsedCount,
		BatchCount:    r.BatchCount,
		FailedBatches: lo.Map(r.Failures, func(f ingest.BatchFailure, _ int) int { return f.BatchIndex }),
	}
}

// RefreshResult is returned by Refresh.
type RefreshResult struct {
	DataSource repository.DataSource
	IngestReport
}

// IngestEvent is emitted after every ingest that reached the insert phase.
type IngestEvent struct {
	DataSourceID  string    `json:"data_source_id"`
	URL           string    `json:"url"`
	Trigger       string    `json:"trigger"`
	InsertedCount int       `json:"inserted_rows"`
	ParsedCount   int       `json:"parsed_rows"`
	FailedBatches int       `json:"failed_batches"`
	CompletedAt   time.Time `json:"completed_at"`
}

// IngestNotifier receives ingest events. Failures are logged and ignored.
type IngestNotifier interface {
	PublishIngested(ctx context.Context, event IngestEvent) error
}

// Coordinator runs catalog operations against the row and source stores.
type Coordinator struct {
	sources      services.DataSourceService
	rows         services.DataRowService
	pipeline     *ingest.Pipeline
	leases       work.LeaseManager
	leaseTTL     time.Duration
	notifier     IngestNotifier
	archive      ObjectStore
	previewLimit int
	now          func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLeaseManager sets the manager serialising refreshes of one source.
func WithLeaseManager(m work.LeaseManager, ttl time.Duration) Option {
	return func(c *Coordinator) {
		if m != nil {
			c.leases = m
		}
		if ttl > 0 {
			c.leaseTTL = ttl
		}
	}
}

func WithNotifier(n IngestNotifier) Option {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

func WithArchive(store ObjectStore) Option {
	return func(c *Coordinator) {
		c.archive = store
	}
}

func WithPreviewLimit(limit int) Option {
	return func(c *Coordinator) {
		if limit > 0 {
			c.previewLimit = limit
		}
	}
}

// NewCoordinator creates a coordinator. The pipeline must write through rows.
func NewCoordinator(sources services.DataSourceService, rows services.DataRowService, pipeline *ingest.Pipeline, opts ...Option) *Coordinator {
	c := &Coordinator{
		sources:      sources,
		rows:         rows,
		pipeline:     pipeline,
		leases:       work.NewMemoryLeaseManager(),
		leaseTTL:     work.DefaultLeaseTTL,
		previewLimit: DefaultPreviewLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all sources, newest first.
func (c *Coordinator) List(ctx context.Context) ([]repository.DataSource, error) {
	list, err := c.sources.List(ctx)
	if err != nil {
		return nil, internalError("Failed to fetch data sources", err)
	}
	return list, nil
}

// Get returns one source.
func (c *Coordinator) Get(ctx context.Context, id string) (repository.DataSource, error) {
	source, err := c.sources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return repository.DataSource{}, NotFoundError("Data source not found", err)
		}
		return repository.DataSource{}, internalError("Failed to fetch data source", err)
	}
	return source, nil
}

// CreateAndIngest registers a new source and loads its CSV. If the fetch
// fails the source stays registered with zero rows and the *ingest.FetchError
// is returned together with the created source.
func (c *Coordinator) CreateAndIngest(ctx context.Context, name, url, description string) (repository.DataSource, IngestReport, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return repository.DataSource{}, IngestReport{}, ValidationError("Name and URL are required")
	}

	if _, err := c.sources.GetByURL(ctx, url); err == nil {
		return repository.DataSource{}, IngestReport{}, ConflictError("A data source with this URL already exists", services.ErrDuplicateURL)
	} else if !errors.Is(err, services.ErrNotFound) {
		return repository.DataSource{}, IngestReport{}, internalError("Failed to check data source url", err)
	}

	now := c.now()
	source, err := c.sources.Create(ctx, repository.CreateDataSourceParams{
		ID:          uuid.NewString(),
		Name:        name,
		Url:         url,
		Description: pgtype.Text{String: description, Valid: strings.TrimSpace(description) != ""},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateURL) {
			return repository.DataSource{}, IngestReport{}, ConflictError("A data source with this URL already exists", err)
		}
		return repository.DataSource{}, IngestReport{}, internalError("Failed to create data source", err)
	}
	log.Info().Str("dataSourceID", source.ID).Str("url", url).Msg("Data source created")

	lease, err := c.acquire(ctx, source.ID)
	if err != nil {
		return source, IngestReport{}, err
	}
	defer c.release(lease)

	ingestCtx, cancel := c.detach(ctx)
	defer cancel()

	result, err := c.pipeline.Ingest(ingestCtx, source.Url, source.ID)
	if err != nil {
		return source, IngestReport{}, err
	}

	source = c.finalize(ingestCtx, source, result, TriggerCreate)
	return source, newIngestReport(result), nil
}

// Refresh replaces all rows of a source with a fresh download of its URL.
//
// Rows are purged before the fetch. A fetch failure therefore leaves the
// source with no rows while row_count still reports the previous value,
// until the next successful refresh.
func (c *Coordinator) Refresh(ctx context.Context, id string) (RefreshResult, error) {
	lease, err := c.acquire(ctx, id)
	if err != nil {
		return RefreshResult{}, err
	}
	defer c.release(lease)

	source, err := c.Get(ctx, id)
	if err != nil {
		return RefreshResult{}, err
	}

	deleted, err := c.rows.DeleteBySource(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("dataSourceID", id).Msg("Failed to delete old data")
		return RefreshResult{}, DeleteError("Failed to delete old data", err)
	}
	log.Debug().Str("dataSourceID", id).Int64("deleted", deleted).Msg("Old rows purged")

	ingestCtx, cancel := c.detach(ctx)
	defer cancel()

	result, err := c.pipeline.Ingest(ingestCtx, source.Url, id)
	if err != nil {
		return RefreshResult{}, err
	}

	source = c.finalize(ingestCtx, source, result, TriggerRefresh)
	return RefreshResult{DataSource: source, IngestReport: newIngestReport(result)}, nil
}

// Delete removes a source and its rows.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	if err := c.sources.Delete(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return NotFoundError("Data source not found", err)
		}
		log.Error().Err(err).Str("dataSourceID", id).Msg("Failed to delete data source")
		return DeleteError("Failed to delete data source", err)
	}
	log.Info().Str("dataSourceID", id).Msg("Data source deleted")
	return nil
}

// finalize records the ingest outcome and re-reads the source. Failures
// here are logged only; the returned source falls back to local values.
func (c *Coordinator) finalize(ctx context.Context, source repository.DataSource, result ingest.Result, trigger string) repository.DataSource {
	now := c.now()
	columns := result.Columns
	if columns == nil {
		columns = []string{}
	}

	err := c.sources.UpdateRefresh(ctx, repository.UpdateDataSourceRefreshParams{
		ID:          source.ID,
		RowCount:    int64(result.InsertedCount),
		LastRefresh: pgtype.Timestamptz{Time: now, Valid: true},
		Columns:     columns,
		UpdatedAt:   now,
	})
	if err != nil {
		log.Error().Err(err).Str("dataSourceID", source.ID).Msg("Error updating data source")
	}

	updated, err := c.sources.GetByID(ctx, source.ID)
	if err != nil {
		log.Warn().Err(err).Str("dataSourceID", source.ID).Msg("Failed to re-read data source")
		updated = source
		updated.RowCount = int64(result.InsertedCount)
		updated.LastRefresh = pgtype.Timestamptz{Time: now, Valid: true}
		updated.Columns = columns
	}

	c.notify(ctx, IngestEvent{
		DataSourceID:  source.ID,
		URL:           source.Url,
		Trigger:       trigger,
		InsertedCount: result.InsertedCount,
		ParsedCount:   result.ParsedCount,
		FailedBatches: len(result.Failures),
		CompletedAt:   now,
	})

	return updated
}

func (c *Coordinator) notify(ctx context.Context, event IngestEvent) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.PublishIngested(ctx, event); err != nil {
		log.Warn().Err(err).Str("dataSourceID", event.DataSourceID).Msg("Failed to publish ingest event")
	}
}

// detach returns the context for ingest and finalize: caller cancellation is
// ignored and the lease TTL bounds the load.
func (c *Coordinator) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.leaseTTL)
}

func (c *Coordinator) acquire(ctx context.Context, id string) (*work.Lease, error) {
	lease, err := c.leases.Acquire(ctx, id, c.leaseTTL)
	if err != nil {
		if errors.Is(err, work.ErrLeaseHeld) {
			log.Warn().Str("dataSourceID", id).Msg("Refresh already in progress")
			return nil, &Error{Kind: KindRefreshInProgress, Message: "Refresh already in progress", Err: ErrRefreshInProgress}
		}
		return nil, internalError("Failed to acquire refresh lease", fmt.Errorf("lease %s: %w", id, err))
	}
	return lease, nil
}

func (c *Coordinator) release(lease *work.Lease) {
	if err := c.leases.Release(context.Background(), lease); err != nil {
		log.Warn().Err(err).Str("dataSourceID", lease.Key).Msg("Failed to release refresh lease")
	}
}
