package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var got []string
	bus.Subscribe("test", func(ctx context.Context, event Event) error {
		got = append(got, "first:"+event.Data().(string))
		return nil
	})
	bus.Subscribe("test", func(ctx context.Context, event Event) error {
		got = append(got, "second:"+event.Data().(string))
		return nil
	})

	err := bus.Publish(context.Background(), NewBasicEventWithSource("test", "x", "unit"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	calls := 0
	unsubscribe := bus.Subscribe("test", func(ctx context.Context, event Event) error {
		calls++
		return nil
	})
	assert.Equal(t, 1, bus.GetSubscriberCount("test"))

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, bus.GetSubscriberCount("test"))

	require.NoError(t, bus.Publish(context.Background(), NewBasicEventWithSource("test", nil, "unit")))
	assert.Equal(t, 0, calls)
}

func TestEventBus_HandlerErrorsAreJoined(t *testing.T) {
	bus := NewEventBus(nil)
	boom := errors.New("boom")
	reached := false
	bus.Subscribe("test", func(ctx context.Context, event Event) error { return boom })
	bus.Subscribe("test", func(ctx context.Context, event Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(context.Background(), NewBasicEventWithSource("test", nil, "unit"))
	assert.ErrorIs(t, err, boom)
	assert.True(t, reached)
}

func TestEventBus_NoHandlers(t *testing.T) {
	bus := NewEventBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), NewBasicEventWithSource("none", nil, "unit")))
}
