package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Subscription is one consumer together with the handler that owns its
// messages. It is safe to Ping while RunAll is running it.
type Subscription struct {
	Name     string
	Consumer Consumer
	Handler  Handler

	stopped atomic.Pointer[error]
}

// Ping reports an error once the subscription's loop has stopped on a
// failure, so a readiness probe can surface it.
func (s *Subscription) Ping(context.Context) error {
	if errp := s.stopped.Load(); errp != nil {
		return fmt.Errorf("subscription %s stopped: %w", s.Name, *errp)
	}
	return nil
}

// RunAll runs every subscription in its own goroutine and waits for all of
// them. Subscriptions are independent: one that gives up is logged and marked
// stopped, and the others keep consuming until ctx is cancelled. The result
// joins the error of every subscription that stopped on a failure.
func RunAll(ctx context.Context, subs []*Subscription, policy RedeliveryPolicy, log *slog.Logger) error {
	var (
		g    errgroup.Group
		errs = make([]error, len(subs))
	)
	for i, s := range subs {
		i, s := i, s // per-iteration copies for the goroutine (go < 1.22)
		log := log.With("subscription", s.Name)
		g.Go(func() error {
			log.Info("consumer starting")
			err := Run(ctx, s.Consumer, s.Handler, policy, log)
			if err != nil {
				s.stopped.Store(&err)
				log.Error("consumer stopped on failure, other subscriptions continue", "error", err)
				errs[i] = err
				return nil
			}
			log.Info("consumer stopped")
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
