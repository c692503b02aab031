package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/catalog"
)

// Publisher is the part of NatsBroker used to emit messages.
type Publisher interface {
	PublishSync(ctx context.Context, subject string, data []byte) error
}

// EventPublisher publishes catalog events and refresh requests.
type EventPublisher struct {
	publisher Publisher
}

func NewEventPublisher(p Publisher) *EventPublisher {
	return &EventPublisher{publisher: p}
}

// PublishIngested implements catalog.IngestNotifier.
func (p *EventPublisher) PublishIngested(ctx context.Context, event catalog.IngestEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding ingest event: %w", err)
	}
	return p.publisher.PublishSync(ctx, SubjectIngested, data)
}

// RequestRefresh queues an asynchronous refresh of a data source.
func (p *EventPublisher) RequestRefresh(ctx context.Context, dataSourceID, requestID string) error {
	if strings.TrimSpace(dataSourceID) == "" {
		return errors.New("data source id is required")
	}
	data, err := json.Marshal(RefreshRequestMessage{
		DataSourceID: dataSourceID,
		RequestID:    requestID,
		RequestedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding refresh request: %w", err)
	}
	return p.publisher.PublishSync(ctx, SubjectRefresh, data)
}
