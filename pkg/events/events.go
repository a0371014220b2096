// Package events moves rental lifecycle events through Kafka: the API
// publishes them and the audit consumer stores them.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type BacklogError string

func (e BacklogError) Error() string {
	return string(e)
}

const (
	ErrNoWriter BacklogError = "events has no writer"
	ErrNoReader BacklogError = "events has no reader"
	ErrNoStore  BacklogError = "events has no store"
)

// Store persists consumed events. Saving an event twice must be a no-op.
type Store interface {
	Save(ctx context.Context, event models.RentalEvent) error
}

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	SetOffset(offset int64) error
}

type KafkaEvents struct {
	reader  Reader
	writer  Writer
	breaker *gobreaker.CircuitBreaker[struct{}]
	store   Store
	logger  *slog.Logger
}

type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe.
	OpenTimeout time.Duration
}

var DefaultBreakerSettings = BreakerSettings{
	ConsecutiveFailures: 5,
	OpenTimeout:         30 * time.Second,
}

func NewKafkaEvents(reader Reader, writer Writer, store Store, breaker BreakerSettings, logger *slog.Logger) *KafkaEvents {
	settings := gobreaker.Settings{
		Name:    "kafka-events",
		Timeout: breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &KafkaEvents{
		reader:  reader,
		writer:  writer,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		store:   store,
		logger:  logger,
	}
}

// Publish writes event keyed by its rental id, so events of one rental keep
// their order. While the broker keeps failing the breaker rejects writes
// immediately.
func (e *KafkaEvents) Publish(ctx context.Context, event models.RentalEvent) error {
	if e.writer == nil {
		return ErrNoWriter
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	msg := kafka.Message{
		Key:   []byte(event.RentalID.String()),
		Value: payload,
	}

	e.logger.Debug("write event to kafka...",
		slog.String("type", string(event.Type)),
		slog.String("key", string(msg.Key)),
	)

	_, err = e.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, e.writer.WriteMessages(ctx, msg)
	})

	return err
}

// SaveEvent reads one event and stores it. When storing fails the reader
// is rewound to the message so it is read again.
func (e *KafkaEvents) SaveEvent(ctx context.Context) (err error) {
	if e.reader == nil {
		return ErrNoReader
	}
	if e.store == nil {
		return ErrNoStore
	}

	msg, err := e.reader.ReadMessage(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			err = multierror.Append(err, e.reader.SetOffset(msg.Offset)).ErrorOrNil()
		}
	}()

	e.logger.Debug("read event from kafka",
		slog.String("topic", msg.Topic),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
		slog.String("key", string(msg.Key)),
	)

	var event models.RentalEvent
	if err = json.Unmarshal(msg.Value, &event); err != nil {
		e.logger.Error("skip malformed event",
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if event.ID == uuid.Nil {
		e.logger.Error("skip event without id", slog.Int64("offset", msg.Offset))
		return nil
	}

	return e.store.Save(ctx, event)
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.RentalEvent) error {
	return nil
}
