package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/csvparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	text string
	err  error
}

func (f staticFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.text, f.err
}

type recordingWriter struct {
	mu       sync.Mutex
	failOn   map[int]bool
	calls    int
	starts   []int
	sizes    []int
	sourceID string
	rows     []csvparser.Record
}

func (w *recordingWriter) InsertRows(ctx context.Context, sourceID string, startRow int, records []csvparser.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.calls
	w.calls++
	w.starts = append(w.starts, startRow)
	w.sizes = append(w.sizes, len(records))
	w.sourceID = sourceID
	if w.failOn[idx] {
		return fmt.Errorf("batch %d rejected", idx)
	}
	w.rows = append(w.rows, records...)
	return nil
}

func csvWithRows(n int) string {
	var sb strings.Builder
	sb.WriteString("id,value\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d,v%d\n", i, i)
	}
	return sb.String()
}

func TestPipelineBatchAccounting(t *testing.T) {
	tests := []struct {
		name          string
		rows          int
		failOn        map[int]bool
		wantBatches   int
		wantInserted  int
		wantFailedIdx []int
	}{
		{"no rows", 0, nil, 0, 0, nil},
		{"single partial batch", 1, nil, 1, 1, nil},
		{"exact batch", 100, nil, 1, 100, nil},
		{"one over", 101, nil, 2, 101, nil},
		{"many batches", 250, nil, 3, 250, nil},
		{"middle batch fails", 250, map[int]bool{1: true}, 3, 150, []int{1}},
		{"last short batch fails", 250, map[int]bool{2: true}, 3, 200, []int{2}},
		{"every batch fails", 250, map[int]bool{0: true, 1: true, 2: true}, 3, 0, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &recordingWriter{failOn: tt.failOn}
			p := NewPipeline(staticFetcher{text: csvWithRows(tt.rows)}, writer)

			result, err := p.Ingest(context.Background(), "http://example.test/a.csv", "src-1")
			require.NoError(t, err)

			assert.Equal(t, tt.wantBatches, result.BatchCount)
			assert.Equal(t, tt.wantBatches, writer.calls)
			assert.Equal(t, tt.rows, result.ParsedCount)
			assert.Equal(t, tt.wantInserted, result.InsertedCount)

			var failed []int
			failedRows := 0
			for _, f := range result.Failures {
				failed = append(failed, f.BatchIndex)
				failedRows += f.Size
				assert.Error(t, f.Err)
			}
			assert.Equal(t, tt.wantFailedIdx, failed)
			assert.Equal(t, tt.rows, result.InsertedCount+failedRows)
			assert.Equal(t, len(tt.wantFailedIdx) > 0, result.Partial())
		})
	}
}

func TestPipelinePreservesOrder(t *testing.T) {
	writer := &recordingWriter{}
	p := NewPipeline(staticFetcher{text: csvWithRows(7)}, writer, WithBatchSize(3))

	result, err := p.Ingest(context.Background(), "http://example.test/a.csv", "src-1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.BatchCount)
	assert.Equal(t, []int{0, 3, 6}, writer.starts)
	assert.Equal(t, []int{3, 3, 1}, writer.sizes)
	assert.Equal(t, "src-1", writer.sourceID)
	assert.Equal(t, []string{"id", "value"}, result.Columns)
	for i, row := range writer.rows {
		assert.Equal(t, fmt.Sprint(i), row["id"])
	}
}

func TestPipelineFetchFailureWritesNothing(t *testing.T) {
	writer := &recordingWriter{}
	fetchErr := &FetchError{URL: "http://example.test/a.csv", StatusCode: 404, Status: "Not Found"}
	p := NewPipeline(staticFetcher{err: fetchErr}, writer)

	_, err := p.Ingest(context.Background(), "http://example.test/a.csv", "src-1")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 404, fe.StatusCode)
	assert.Equal(t, "Failed to fetch CSV: Not Found", err.Error())
	assert.Zero(t, writer.calls)
}

func TestWithBatchSizeIgnoresNonPositive(t *testing.T) {
	p := NewPipeline(staticFetcher{}, &recordingWriter{}, WithBatchSize(0), WithBatchSize(-5))
	assert.Equal(t, DefaultBatchSize, p.BatchSize())
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("name,age\nAlice,30\nBob,25"))
		case "/slow.csv":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("a\n1"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("success", func(t *testing.T) {
		f := NewHTTPFetcher(nil, time.Second)
		text, err := f.Fetch(context.Background(), srv.URL+"/ok.csv")
		require.NoError(t, err)
		assert.Equal(t, "name,age\nAlice,30\nBob,25", text)
	})

	t.Run("non success status", func(t *testing.T) {
		f := NewHTTPFetcher(nil, time.Second)
		_, err := f.Fetch(context.Background(), srv.URL+"/missing.csv")

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, http.StatusNotFound, fe.StatusCode)
		assert.Equal(t, "Not Found", fe.Status)
	})

	t.Run("timeout is a fetch error", func(t *testing.T) {
		f := NewHTTPFetcher(nil, 50*time.Millisecond)
		_, err := f.Fetch(context.Background(), srv.URL+"/slow.csv")

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Zero(t, fe.StatusCode)
		assert.NotNil(t, errors.Unwrap(err))
	})

	t.Run("invalid url", func(t *testing.T) {
		f := NewHTTPFetcher(nil, time.Second)
		_, err := f.Fetch(context.Background(), "://bad")

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
	})
}
