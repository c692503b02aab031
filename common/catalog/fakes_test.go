package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/csvparser"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/ingest"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/services"
	"github.com/LexiconIndonesia/datasource-catalog-service/repository"
)

type memorySources struct {
	mu        sync.Mutex
	items     map[string]repository.DataSource
	updateErr error
	getErr    error
}

func newMemorySources() *memorySources {
	return &memorySources{items: map[string]repository.DataSource{}}
}

func (m *memorySources) GetByID(_ context.Context, id string) (repository.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return repository.DataSource{}, m.getErr
	}
	ds, ok := m.items[id]
	if !ok {
		return repository.DataSource{}, services.ErrNotFound
	}
	return ds, nil
}

func (m *memorySources) GetByURL(_ context.Context, url string) (repository.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ds := range m.items {
		if ds.Url == url {
			return ds, nil
		}
	}
	return repository.DataSource{}, services.ErrNotFound
}

func (m *memorySources) List(_ context.Context) ([]repository.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]repository.DataSource, 0, len(m.items))
	for _, ds := range m.items {
		list = append(list, ds)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *memorySources) Create(_ context.Context, arg repository.CreateDataSourceParams) (repository.DataSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ds := range m.items {
		if ds.Url == arg.Url {
			return repository.DataSource{}, services.ErrDuplicateURL
		}
	}
	ds := repository.DataSource{
		ID:          arg.ID,
		Name:        arg.Name,
		Url:         arg.Url,
		Description: arg.Description,
		Columns:     []string{},
		CreatedAt:   arg.CreatedAt,
		UpdatedAt:   arg.UpdatedAt,
	}
	m.items[ds.ID] = ds
	return ds, nil
}

func (m *memorySources) UpdateRefresh(ctx context.Context, arg repository.UpdateDataSourceRefreshParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	ds, ok := m.items[arg.ID]
	if !ok {
		return services.ErrNotFound
	}
	ds.RowCount = arg.RowCount
	ds.LastRefresh = arg.LastRefresh
	ds.Columns = arg.Columns
	ds.UpdatedAt = arg.UpdatedAt
	m.items[arg.ID] = ds
	return nil
}

func (m *memorySources) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return services.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memorySources) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type memoryRows struct {
	mu        sync.Mutex
	rows      map[string][]repository.DataRow
	failBatch func(startRow int) bool
	deleteErr error
	onDelete  func(sourceID string)
}

func newMemoryRows() *memoryRows {
	return &memoryRows{rows: map[string][]repository.DataRow{}}
}

func (m *memoryRows) InsertRows(ctx context.Context, sourceID string, startRow int, records []csvparser.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.failBatch != nil && m.failBatch(startRow) {
		return errors.New("insert rejected")
	}
	params, err := services.BuildRowParams(sourceID, startRow, records, time.Now())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range params {
		m.rows[sourceID] = append(m.rows[sourceID], repository.DataRow{
			ID:           p.ID,
			DataSourceID: p.DataSourceID,
			RowNumber:    p.RowNumber,
			JsonData:     p.JsonData,
			CreatedAt:    p.CreatedAt,
		})
	}
	return nil
}

func (m *memoryRows) DeleteBySource(_ context.Context, sourceID string) (int64, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	if m.onDelete != nil {
		m.onDelete(sourceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.rows[sourceID])
	delete(m.rows, sourceID)
	return int64(n), nil
}

func (m *memoryRows) ListBySource(_ context.Context, sourceID string, limit int) ([]repository.DataRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := append([]repository.DataRow(nil), m.rows[sourceID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].RowNumber < rows[j].RowNumber })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memoryRows) CountBySource(_ context.Context, sourceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows[sourceID])), nil
}

// urlFetcher serves CSV bodies by URL; unknown URLs answer 404.
type urlFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  int
}

func newURLFetcher() *urlFetcher {
	return &urlFetcher{bodies: map[string]string{}}
}

func (f *urlFetcher) set(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = body
}

func (f *urlFetcher) remove(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bodies, url)
}

func (f *urlFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	body, ok := f.bodies[url]
	if !ok {
		return "", &ingest.FetchError{URL: url, StatusCode: 404, Status: "Not Found"}
	}
	return body, nil
}

// cancelAfterFetch cancels the caller's context once the body is returned,
// like a client that disconnects while rows are being written.
type cancelAfterFetch struct {
	ingest.Fetcher
	cancel context.CancelFunc
}

func (f cancelAfterFetch) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.Fetcher.Fetch(ctx, url)
	f.cancel()
	return body, err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []IngestEvent
	err    error
}

func (n *recordingNotifier) PublishIngested(_ context.Context, event IngestEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type memoryObjectStore struct {
	objects map[string][]byte
	err     error
}

func (s *memoryObjectStore) Upload(_ context.Context, objectName string, r io.Reader, _ string) (string, error) {
	if s.err != nil {
		_, _ = io.Copy(io.Discard, r)
		return "", s.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[objectName] = buf.Bytes()
	return objectName, nil
}

func (s *memoryObjectStore) SignedURL(_ context.Context, objectName string) (string, error) {
	return "https://storage.example.test/" + objectName + "?signed=1", nil
}
