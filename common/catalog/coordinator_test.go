package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/ingest"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleURL = "https://data.example.test/people.csv"

type fixture struct {
	sources  *memorySources
	rows     *memoryRows
	fetcher  *urlFetcher
	notifier *recordingNotifier
	c        *Coordinator
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		sources:  newMemorySources(),
		rows:     newMemoryRows(),
		fetcher:  newURLFetcher(),
		notifier: &recordingNotifier{},
	}
	pipeline := ingest.NewPipeline(f.fetcher, f.rows)
	opts = append([]Option{WithNotifier(f.notifier)}, opts...)
	f.c = NewCoordinator(f.sources, f.rows, pipeline, opts...)
	return f
}

func csvRows(n int) string {
	var sb strings.Builder
	sb.WriteString("id,label\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d,row %d\n", i, i)
	}
	return sb.String()
}

func decodeRow(t *testing.T, data []byte) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestCreateAndIngest(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, "name,age\nAlice,30\nBob,25")

	source, report, err := f.c.CreateAndIngest(context.Background(), "People", peopleURL, "demo")
	require.NoError(t, err)

	assert.Equal(t, "People", source.Name)
	assert.Equal(t, peopleURL, source.Url)
	assert.Equal(t, "demo", source.Description.String)
	assert.Equal(t, int64(2), source.RowCount)
	assert.True(t, source.LastRefresh.Valid)
	assert.Equal(t, []string{"name", "age"}, source.Columns)
	assert.Equal(t, IngestReport{InsertedCount: 2, ParsedCount: 2, BatchCount: 1, FailedBatches: []int{}}, report)

	stored, err := f.rows.ListBySource(context.Background(), source.ID, 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, map[string]string{"name": "Alice", "age": "30"}, decodeRow(t, stored[0].JsonData))
	assert.Equal(t, map[string]string{"name": "Bob", "age": "25"}, decodeRow(t, stored[1].JsonData))

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, TriggerCreate, f.notifier.events[0].Trigger)
	assert.Equal(t, 2, f.notifier.events[0].InsertedCount)
}

func TestCreateAndIngestValidation(t *testing.T) {
	tests := []struct {
		name, dsName, url string
	}{
		{"blank name", "  ", peopleURL},
		{"blank url", "People", ""},
		{"both blank", "", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, _, err := f.c.CreateAndIngest(context.Background(), tt.dsName, tt.url, "")

			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
			assert.Equal(t, "Name and URL are required", PublicMessage(err))
			assert.Zero(t, f.sources.count())
			assert.Zero(t, f.fetcher.calls)
		})
	}
}

func TestCreateAndIngestDuplicateURL(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, "name\nAlice")

	_, _, err := f.c.CreateAndIngest(context.Background(), "People", peopleURL, "")
	require.NoError(t, err)
	calls := f.fetcher.calls

	_, _, err = f.c.CreateAndIngest(context.Background(), "People again", peopleURL, "")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.Equal(t, 1, f.sources.count())
	assert.Equal(t, calls, f.fetcher.calls)
}

func TestCreateAndIngestFetchFailureKeepsSource(t *testing.T) {
	f := newFixture()

	source, _, err := f.c.CreateAndIngest(context.Background(), "Missing", "https://data.example.test/missing.csv", "")

	var fe *ingest.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	assert.Equal(t, "Failed to fetch CSV: Not Found", PublicMessage(err))

	stored, getErr := f.sources.GetByID(context.Background(), source.ID)
	require.NoError(t, getErr)
	assert.Zero(t, stored.RowCount)
	assert.False(t, stored.LastRefresh.Valid)
	assert.Empty(t, f.notifier.events)
}

func TestRefreshIsIdempotent(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, csvRows(250))
	ctx := context.Background()

	source, _, err := f.c.CreateAndIngest(ctx, "People", peopleURL, "")
	require.NoError(t, err)

	first, err := f.c.Refresh(ctx, source.ID)
	require.NoError(t, err)
	second, err := f.c.Refresh(ctx, source.ID)
	require.NoError(t, err)

	assert.Equal(t, 250, first.InsertedCount)
	assert.Equal(t, 3, first.BatchCount)
	assert.Equal(t, first.InsertedCount, second.InsertedCount)
	assert.Equal(t, int64(250), second.DataSource.RowCount)

	count, err := f.rows.CountBySource(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), count)

	rows, err := f.rows.ListBySource(ctx, source.ID, 0)
	require.NoError(t, err)
	for i, row := range rows {
		assert.Equal(t, fmt.Sprint(i), decodeRow(t, row.JsonData)["id"])
	}
	assert.Len(t, f.notifier.events, 3)
}

func TestRefreshNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.c.Refresh(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, "Data source not found", PublicMessage(err))
}

func TestRefreshDeleteFailureIsTerminal(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, "name\nAlice\nBob")
	ctx := context.Background()

	source, _, err := f.c.CreateAndIngest(ctx, "People", peopleURL, "")
	require.NoError(t, err)
	calls := f.fetcher.calls

	f.rows.deleteErr = errors.New("connection reset")
	_, err = f.c.Refresh(ctx, source.ID)

	require.Error(t, err)
	assert.Equal(t, KindDelete, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, "Failed to delete old data", PublicMessage(err))
	assert.Equal(t, calls, f.fetcher.calls)

	stored, _ := f.sources.GetByID(ctx, source.ID)
	assert.Equal(t, source.RowCount, stored.RowCount)
	assert.Equal(t, source.LastRefresh, stored.LastRefresh)
}

func TestRefreshFetchFailureAfterPurge(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, "name\nAlice\nBob")
	ctx := context.Background()

	source, _, err := f.c.CreateAndIngest(ctx, "People", peopleURL, "")
	require.NoError(t, err)

	f.fetcher.remove(peopleURL)
	_, err = f.c.Refresh(ctx, source.ID)

	var fe *ingest.FetchError
	require.ErrorAs(t, err, &fe)

	count, _ := f.rows.CountBySource(ctx, source.ID)
	assert.Zero(t, count)

	stored, _ := f.sources.GetByID(ctx, source.ID)
	assert.Equal(t, int64(2), stored.RowCount, "metadata is left stale")
}

func TestRefreshPartialBatchFailure(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, csvRows(250))
	ctx := context.Background()

	source, _, err := f.c.CreateAndIngest(ctx, "People", peopleURL, "")
	require.NoError(t, err)

	f.rows.failBatch = func(startRow int) bool { return startRow == 100 }
	result, err := f.c.Refresh(ctx, source.ID)
	require.NoError(t, err)

	assert.Equal(t, 150, result.InsertedCount)
	assert.Equal(t, []int{1}, result.FailedBatches)
	assert.Equal(t, int64(150), result.DataSource.RowCount)
}

func TestRefreshMetadataFailureIsLoggedOnly(t *testing.T) {
	f := newFixture()
	f.fetcher.set(peopleURL, "name\nAlice\nBob")
	ctx := context.Background()

	source, _, err := f.c.CreateAndIngest(ctx, "People", peopleURL, "")
	require.NoError(t, err)

	f.fetcher.set(peopleURL, "name\nAlice\nBob\nCarol")
	f.sources.updateErr = errors.New("update failed")

	result, err := f.c.Refresh(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.InsertedCount)

	count, _ := f.rows.CountBySource(ctx, source.ID)
	assert.Equal(t, int64(3), count)

	stored, _ := f.sources.GetByID(ctx, source.ID)
	assert.Equal(t, int64(2), stored.RowCount)
}

func TestIngestSurvivesCallerCancellation(t *testing.T) {
	tests := []struct {
		name string
		run  func(c *Coordinator, ctx context.Context, f *fixture) (string, error)
	}{
		{
			name: "refresh after purge",
			run: func(c *Coordinator, ctx context.Context, f *fixture) (string, error) {
				source, _, err := f.c.CreateAndIngest(context.Background(), "People", peopleURL, "")
				if err != nil {
					return "", err
				}
				result, err := c.Refresh(ctx, source.ID)
				return result.DataSource.ID, err
			},
		},
		{
			name: "create",
			run: func(c *Coordinator, ctx context.Context, f *fixture) (string, error) {
				source, _, err := c.CreateAndIngest(ctx, "People", peopleURL, "")
				return source.ID, err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.fetcher.set(peopleURL, csvRows(250))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pipeline := ingest.NewPipeline(cancelAfterFetch{Fetcher: f.fetcher, cancel: cancel}, f.rows)
			c := NewCoordinator(f.sources, f.rows, pipeline)

			id, err := tt.run(c, ctx, f)
			require.NoError(t, err)
			require.Error(t, ctx.Err())

			count, err := f.rows.CountBySource(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, int64(250), count)

			stored, err := f.sources.GetByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, int64(250), stored.RowCount)
			assert.True(t, stored.LastRefresh.Valid)
		})
	}
}

func TestRefreshLeaseConflict(t *testing.T) {
	leases := work.NewMemoryLeaseManager()
	f := newFixture(WithLeaseManager(leases, time.Minute))
	f.fetcher.set(peopleURL, "name\nAlice")
	ctx := context.Background()

	source, _, err := f.c.CreateAndIngest(ctx, "People", peopleURL, "")
	require.NoError(t, err)

	var nested error
	f.rows.onDelete = func(id string) {
		_, nested = f.c.Refresh(ctx, id)
	}

	_, err = f.c.Refresh(ctx, source.ID)
	require.NoError(t, err)

	require.Error(t, nested)
	assert.ErrorIs(t, nested, ErrRefreshInProgress)
	assert.Equal(t, http.StatusConflict, HTTPStatus(nested))

	// released after the outer refresh finished
	f.rows.onDelete = nil
	_, err = f.c.Refresh(ctx, source.ID)
	assert.NoError(t, err)
}

func TestNotifierFailureDoesNotFailRefresh(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("broker down")
	f.fetcher.set(peopleURL, "name\nAlice")

	source, _, err := f.c.CreateAndIngest(context.Background(), "People", peopleURL, "")
	require.NoError(t, err)

	_, err = f.c.Refresh(context.Background(), source.ID)
	assert.NoError(t, err)
}

func TestListGetDelete(t *testing.T) {
	f := newFixture()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.c.now = func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	ctx := context.Background()

	f.fetcher.set("https://a.test/1.csv", "x\n1")
	f.fetcher.set("https://a.test/2.csv", "x\n2")
	first, _, err := f.c.CreateAndIngest(ctx, "First", "https://a.test/1.csv", "")
	require.NoError(t, err)
	second, _, err := f.c.CreateAndIngest(ctx, "Second", "https://a.test/2.csv", "")
	require.NoError(t, err)

	list, err := f.c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := f.c.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)

	require.NoError(t, f.c.Delete(ctx, first.ID))
	_, err = f.c.Get(ctx, first.ID)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))

	err = f.c.Delete(ctx, first.ID)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}
