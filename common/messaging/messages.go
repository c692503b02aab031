package messaging

import "time"

const (
	StreamName = "DATASOURCES"

	// SubjectRefresh carries RefreshRequestMessage.
	SubjectRefresh = "datasource.refresh"
	// SubjectIngested carries catalog.IngestEvent.
	SubjectIngested = "datasource.ingested"

	refreshAckWait    = 10 * time.Minute
	refreshMaxDeliver = 5
	refreshRetryDelay = 30 * time.Second
)

// RefreshRequestMessage asks a consumer to refresh one data source.
type RefreshRequestMessage struct {
	DataSourceID string    `json:"data_source_id"`
	RequestID    string    `json:"request_id,omitempty"`
	RequestedAt  time.Time `json:"requested_at"`
}
