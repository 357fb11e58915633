package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// RedeliveryPolicy controls how often a failing message is handed to the
// Handler again before Run gives up on it.
type RedeliveryPolicy struct {
	// MaxAttempts counts the first delivery. Zero means one attempt.
	MaxAttempts uint64
	// InitialBackoff doubles after every failed attempt.
	InitialBackoff time.Duration
	// Retryable reports whether err is worth another attempt. Nil means
	// every error is.
	Retryable func(err error) bool
	// DeadLetter, when set, receives messages that fail with an error that
	// is not retryable. Once published there they are acknowledged and the
	// loop moves on. Without it such a message stops Run like any other.
	DeadLetter DeadLetter
}

// DeadLetter parks a message the Handler can never accept.
type DeadLetter interface {
	Publish(ctx context.Context, msg Message, cause error) error
}

// ErrGaveUp is returned by Run when a message still fails after the last
// redelivery attempt. The message is left unacknowledged.
var ErrGaveUp = errors.New("redelivery attempts exhausted")

// Run consumes messages from c until ctx is cancelled.
//
// Each message is handled to completion even if ctx is cancelled meanwhile;
// only then does Run notice the shutdown. A message the Handler accepts is
// acknowledged; an acknowledgement failure is logged and ignored, since the
// broker will redeliver and inserts are idempotent. A message that fails
// with a non-retryable error is moved to policy.DeadLetter and acknowledged.
// A message that keeps failing otherwise stops Run with ErrGaveUp and is
// never acknowledged.
//
// Run returns nil on shutdown.
func Run(ctx context.Context, c Consumer, h Handler, policy RedeliveryPolicy, log *slog.Logger) error {
	for {
		msg, err := c.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("bus.Run: %w", err)
		}

		// The in-flight message finishes even if shutdown starts now.
		work := context.WithoutCancel(ctx)

		if err := deliver(ctx, work, h, msg, policy, log); err != nil {
			if ctx.Err() != nil {
				log.Info("shutdown during redelivery, message left unacknowledged", "message_id", msg.ID)
				return nil
			}
			if !policy.deadLettered(work, msg, err, log) {
				log.Error("giving up on message, leaving it unacknowledged", "message_id", msg.ID, "error", err)
				return fmt.Errorf("bus.Run: message %s: %w: %w", msg.ID, ErrGaveUp, err)
			}
		}

		if err := c.Ack(work, msg); err != nil {
			log.Error("failed to ack message", "message_id", msg.ID, "error", err)
		}
	}
}

// deliver hands msg to h and, while the error is retryable, hands it again
// after an exponentially growing pause. The first attempt always runs;
// waiting between attempts stops as soon as ctx is cancelled. The handler
// itself runs on work.
func deliver(ctx, work context.Context, h Handler, msg Message, policy RedeliveryPolicy, log *slog.Logger) error {
	base := policy.InitialBackoff
	if base <= 0 {
		base = time.Millisecond
	}
	var retries uint64
	if policy.MaxAttempts > 1 {
		retries = policy.MaxAttempts - 1
	}
	backoff := retry.WithMaxRetries(retries, retry.NewExponential(base))

	for attempt := 1; ; attempt++ {
		err := h.Handle(work, msg)
		if err == nil || !policy.retryable(err) {
			return err
		}
		wait, stop := backoff.Next()
		if stop {
			return err
		}

		log.Warn("message handling failed, redelivering",
			"message_id", msg.ID,
			"attempt", attempt,
			"backoff_ms", wait.Milliseconds(),
			"error", err,
		)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// deadLettered publishes msg to the dead-letter sink when its failure is not
// retryable. It reports whether the message may now be acknowledged.
func (p RedeliveryPolicy) deadLettered(ctx context.Context, msg Message, cause error, log *slog.Logger) bool {
	if p.DeadLetter == nil || p.retryable(cause) {
		return false
	}
	if err := p.DeadLetter.Publish(ctx, msg, cause); err != nil {
		log.Error("failed to publish message to dead letter", "message_id", msg.ID, "error", err)
		return false
	}
	log.Warn("message dead-lettered", "message_id", msg.ID, "error", cause)
	return true
}

func (p RedeliveryPolicy) retryable(err error) bool {
	return p.Retryable == nil || p.Retryable(err)
}
