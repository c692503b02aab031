package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// GetJetStreamConsumer returns the durable consumer for subject, creating the
// stream and consumer when missing.
func GetJetStreamConsumer(ctx context.Context, client *NatsBroker, streamName, subject string) (jetstream.Consumer, error) {
	if client == nil || client.js == nil {
		return nil, errors.New("JetStream not initialized")
	}

	stream, err := EnsureStream(ctx, client, streamName, []string{subject})
	if err != nil {
		return nil, err
	}

	consumerName := ConsumerName(subject)
	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          consumerName,
		Durable:       consumerName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       refreshAckWait,
		MaxDeliver:    refreshMaxDeliver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	log.Info().
		Str("stream", streamName).
		Str("subject", subject).
		Str("consumer", consumerName).
		Msg("Got JetStream consumer")

	return consumer, nil
}

// ConsumerName derives the durable consumer name for a subject.
func ConsumerName(subject string) string {
	return "consumer_" + strings.ReplaceAll(subject, ".", "-")
}

// EnsureStream ensures a stream exists with the specified subjects
func EnsureStream(ctx context.Context, client *NatsBroker, name string, subjects []string) (jetstream.Stream, error) {
	stream, err := client.GetStream(ctx, name)
	if err != nil {
		if !errors.Is(err, jetstream.ErrStreamNotFound) {
			log.Error().Err(err).Str("stream_name", name).Msg("Failed to get stream for unknown reasons")
			return nil, err
		}
		return client.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		})
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream info: %w", err)
	}

	merged, changed := mergeSubjects(info.Config.Subjects, subjects)
	if !changed {
		log.Debug().Str("stream_name", name).Msg("No new subjects to add to stream")
		return stream, nil
	}

	config := info.Config
	config.Subjects = merged
	log.Info().Strs("subjects", merged).Str("stream_name", name).Msg("Updating stream with new subjects")
	return client.CreateStream(ctx, config)
}

// mergeSubjects appends missing subjects to existing, keeping order.
func mergeSubjects(existing, wanted []string) ([]string, bool) {
	missing := lo.Without(lo.Uniq(wanted), existing...)
	if len(missing) == 0 {
		return existing, false
	}
	merged := append(append([]string{}, existing...), missing...)
	return merged, true
}
