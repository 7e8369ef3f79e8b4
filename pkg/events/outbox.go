package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/forwarder"
)

const (
	outboxTopic = "_forwarder_queue"
	outboxGroup = "forwarder-consumer"
)

var (
	errNoOutbox      = errors.New("events: bus was created without WithOutbox")
	errOutboxStarted = errors.New("events: forwarder already started")
)

// StartForwarder runs the daemon that moves messages from the outbox topic
// to their target topics. It returns once the forwarder is running; the
// daemon stops when ctx is done or the bus closes.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.outbox {
		return errNoOutbox
	}
	if b.fwd != nil {
		return errOutboxStarted
	}

	sub, err := newSubscriber(b.db, outboxGroup, b.wlog)
	if err != nil {
		return err
	}
	target, err := newPublisher(b.db, true, b.wlog)
	if err != nil {
		_ = sub.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(sub, target, b.wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = target.Close()
		_ = sub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "topic", outboxTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}
