package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/LexiconIndonesia/datasource-catalog-service/common/catalog"
	"github.com/LexiconIndonesia/datasource-catalog-service/common/ingest"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// Refresher runs a refresh for a data source.
type Refresher interface {
	Refresh(ctx context.Context, id string) (catalog.RefreshResult, error)
}

type ackAction int

const (
	actionAck ackAction = iota
	actionNak
	actionTerm
)

// RefreshConsumer executes queued refresh requests.
type RefreshConsumer struct {
	refresher Refresher
	timeout   time.Duration
}

func NewRefreshConsumer(r Refresher, timeout time.Duration) *RefreshConsumer {
	if timeout <= 0 {
		timeout = refreshAckWait
	}
	return &RefreshConsumer{refresher: r, timeout: timeout}
}

// Start subscribes to SubjectRefresh. Stop the returned context on shutdown.
func (rc *RefreshConsumer) Start(ctx context.Context, broker *NatsBroker) (jetstream.ConsumeContext, error) {
	consumer, err := GetJetStreamConsumer(ctx, broker, StreamName, SubjectRefresh)
	if err != nil {
		return nil, err
	}
	return broker.Consume(consumer, func(msg jetstream.Msg) {
		rc.handleMsg(msg)
	})
}

func (rc *RefreshConsumer) handleMsg(msg jetstream.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
	defer cancel()

	var err error
	switch rc.handle(ctx, msg.Data()) {
	case actionAck:
		err = msg.Ack()
	case actionNak:
		err = msg.NakWithDelay(refreshRetryDelay)
	case actionTerm:
		err = msg.Term()
	}
	if err != nil {
		log.Error().Err(err).Str("subject", msg.Subject()).Msg("Failed to acknowledge message")
	}
}

// handle decides the acknowledgement for one message. Requests that cannot
// succeed on redelivery are terminated; transient failures are retried.
func (rc *RefreshConsumer) handle(ctx context.Context, data []byte) ackAction {
	var req RefreshRequestMessage
	if err := json.Unmarshal(data, &req); err != nil || req.DataSourceID == "" {
		log.Error().Err(err).Msg("Invalid refresh request")
		return actionTerm
	}

	logger := log.With().Str("dataSourceID", req.DataSourceID).Str("requestID", req.RequestID).Logger()

	result, err := rc.refresher.Refresh(ctx, req.DataSourceID)
	if err == nil {
		logger.Info().
			Int("inserted", result.InsertedCount).
			Ints("failedBatches", result.FailedBatches).
			Msg("Async refresh completed")
		return actionAck
	}

	var fe *ingest.FetchError
	if errors.As(err, &fe) && (fe.StatusCode == 0 || fe.StatusCode >= http.StatusInternalServerError) {
		logger.Warn().Err(err).Msg("CSV source unavailable, retrying later")
		return actionNak
	}

	switch catalog.KindOf(err) {
	case catalog.KindNotFound, catalog.KindValidation:
		logger.Warn().Err(err).Msg("Async refresh rejected")
		return actionTerm
	case catalog.KindRefreshInProgress:
		logger.Info().Msg("Refresh already running, retrying later")
		return actionNak
	default:
		logger.Error().Err(err).Msg("Async refresh failed")
		return actionNak
	}
}
