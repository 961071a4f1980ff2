package events

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	ch := bus.Subscribe("sub-1")
	bus.Publish(AlertRaised, map[string]int64{"alertId": 7})

	select {
	case ev := <-ch:
		assert.Equal(t, AlertRaised, ev.Type)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event, got none")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	ch := bus.Subscribe("sub-1")
	require.Equal(t, 1, bus.SubscriberCount())

	bus.Unsubscribe("sub-1")
	assert.Equal(t, 0, bus.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	bus.Subscribe("slow")
	for i := 0; i < 100; i++ {
		bus.Publish(ReportUpserted, i)
	}
	// Reaching here without deadlock is the assertion
	assert.Equal(t, 1, bus.SubscriberCount())
}
