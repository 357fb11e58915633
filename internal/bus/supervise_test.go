package bus_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/transitlog-sink/internal/bus"
)

var errDrained = errors.New("no more test messages")

func TestRunAll_FailingSubscriptionDoesNotStopOthers(t *testing.T) {
	ctx, _, log, _ := newRun(t)

	poison := errors.New("cannot decode")
	bad := &fakeConsumer{
		msgs:     []bus.Message{bus.NewMessage("bad/0/7", "TestSchema", nil, nil)},
		drainErr: errDrained,
	}
	good := &fakeConsumer{drainErr: errDrained}
	for i := 0; i < 50; i++ {
		good.msgs = append(good.msgs, bus.NewMessage(fmt.Sprintf("good/0/%d", i), "TestSchema", nil, nil))
	}

	handled := 0
	subs := []*bus.Subscription{
		{
			Name:     "cancellations",
			Consumer: bad,
			Handler: bus.HandlerFunc(func(context.Context, bus.Message) error {
				return poison
			}),
		},
		{
			Name:     "alerts",
			Consumer: good,
			Handler: bus.HandlerFunc(func(context.Context, bus.Message) error {
				handled++
				return nil
			}),
		},
	}
	policy := fastPolicy(3)
	policy.Retryable = func(err error) bool { return !errors.Is(err, poison) }

	err := bus.RunAll(ctx, subs, policy, log)

	assert.ErrorIs(t, err, bus.ErrGaveUp)
	assert.ErrorIs(t, err, poison)
	assert.Equal(t, 50, handled, "the healthy subscription keeps consuming")
	assert.Len(t, good.acked, 50)
	assert.Empty(t, bad.acked)

	assert.ErrorIs(t, subs[0].Ping(ctx), bus.ErrGaveUp, "the stopped subscription reports not ready")
	assert.ErrorIs(t, subs[1].Ping(ctx), errDrained)
}

func TestRunAll_ShutdownLeavesSubscriptionsReady(t *testing.T) {
	ctx, first, log, _ := newRun(t, "m1")
	second := &fakeConsumer{cancel: first.cancel}
	ok := bus.HandlerFunc(func(context.Context, bus.Message) error { return nil })
	subs := []*bus.Subscription{
		{Name: "alerts", Consumer: first, Handler: ok},
		{Name: "cancellations", Consumer: second, Handler: ok},
	}

	err := bus.RunAll(ctx, subs, fastPolicy(1), log)

	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, first.acked)
	for _, s := range subs {
		assert.NoError(t, s.Ping(ctx))
	}
}
