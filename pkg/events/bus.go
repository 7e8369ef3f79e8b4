// Package events carries domain events between the api and the worker over
// PostgreSQL using Watermill's SQL transport.
//
// Writers publish inside the business transaction with PublishInTx, so an
// event exists only if its transaction commits. With WithOutbox the rows go
// to an outbox topic and a forwarder moves them to their real topic.
//
// Subscribers in the same consumer group share the load; each message is
// handled by one instance. Delivery is at-least-once, so handlers must be
// idempotent. Trace context and the event's org travel in message metadata.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/inventra/pkg/auth"
	"github.com/ghuser/inventra/pkg/config"
	"github.com/ghuser/inventra/pkg/logger"
)

const (
	handlerAttempts = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	errBuffer       = 100
)

// Handler processes one message. Returning an error triggers a retry.
type Handler func(context.Context, *message.Message) error

// EventBus publishes and consumes events stored in PostgreSQL.
type EventBus struct {
	db         *sql.DB
	log        logger.Logger
	wlog       watermill.LoggerAdapter
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	group      string
	outbox     bool
	fwd        *forwarder.Forwarder
	wg         sync.WaitGroup
}

// Option customizes New.
type Option func(*EventBus)

// WithOutbox routes published messages through the outbox topic. The
// process that publishes must also call StartForwarder.
func WithOutbox() Option {
	return func(b *EventBus) { b.outbox = true }
}

// WithConsumerGroup overrides the default "<service>-consumer" group.
func WithConsumerGroup(group string) Option {
	return func(b *EventBus) { b.group = group }
}

// New opens its own connection pool on cfg.DatabaseURL and creates the
// Watermill schema on first use.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*EventBus, error) {
	b := &EventBus{
		log:   log,
		wlog:  watermill.NewSlogLogger(log.ToSlog()),
		group: cfg.ServiceName + "-consumer",
	}
	for _, opt := range opts {
		opt(b)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	b.db = db

	pub, err := newPublisher(db, true, b.wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	b.publisher = b.wrap(pub)

	sub, err := newSubscriber(db, b.group, b.wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}
	b.subscriber = sub
	return b, nil
}

func newPublisher(db watermillsql.ContextExecutor, initSchema bool, wlog watermill.LoggerAdapter) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

func (b *EventBus) wrap(pub message.Publisher) message.Publisher {
	if !b.outbox {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}

// PublishInTx writes msgs to topic through tx. They become visible to
// subscribers only if tx commits. The schema already exists by the time a
// transaction runs, so the tx publisher skips initialization.
func (b *EventBus) PublishInTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	pub, err := newPublisher(tx, false, b.wlog)
	if err != nil {
		return err
	}
	injectTraceContext(ctx, msgs)
	if err := b.wrap(pub).Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

// Publish writes msgs to topic outside any business transaction.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTraceContext(ctx, msgs)
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

func injectTraceContext(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

// messageContext restores the publisher's trace and, when the message carries
// a valid org_id, scopes ctx to that organization.
func messageContext(ctx context.Context, msg *message.Message) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
	if orgID, err := uuid.Parse(msg.Metadata.Get(MetadataOrgID)); err == nil {
		ctx = auth.WithOrgID(ctx, orgID)
	}
	return ctx
}

// Subscribe consumes topic in the background until ctx is done or the bus
// closes. A message is acked when handler succeeds. A failing handler is
// retried with exponential backoff (1s, 2s); after the last attempt the
// message is nacked for redelivery and the error is sent on the returned
// channel, which the caller must drain.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)
		for msg := range ch {
			msgCtx := messageContext(ctx, msg)
			if err := retryWithBackoff(msgCtx, msg, handler, handlerAttempts, retryBaseDelay, b.log); err != nil {
				msg.Nack()
				select {
				case errCh <- fmt.Errorf("%s: %w", topic, err):
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
				continue
			}
			msg.Ack()
		}
	}()
	return errCh, nil
}

// retryWithBackoff runs handler up to attempts times, doubling the delay
// after each failure. ctx cancellation stops the wait.
func retryWithBackoff(ctx context.Context, msg *message.Message, handler Handler, attempts int, delay time.Duration, log logger.Logger) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_uuid", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

// Ping checks the bus database connection.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to 30s for in-flight handlers, then
// releases the publisher and the connection pool.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close subscriber: %w", err))
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close forwarder: %w", err))
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close publisher: %w", err))
	}
	if err := b.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close db: %w", err))
	}
	return errors.Join(errs...)
}
