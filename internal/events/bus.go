// Package events provides the in-process event bus used to fan platform
// events (alert raised, audit completed) out to live subscribers.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a category of platform event
type EventType string

const (
	// AlertRaised is published when a new exposure alert row is created
	AlertRaised EventType = "alert_raised"
	// AuditCompleted is published after an audit run finishes
	AuditCompleted EventType = "audit_completed"
	// ReportUpserted is published when a compliance report row is written
	ReportUpserted EventType = "report_upserted"
)

// Event is a single published event
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Bus is a fan-out publish/subscribe hub. Slow subscribers drop events
// rather than block publishers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	log         zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
		log:         log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a subscriber and returns its channel. The id must be
// unique per subscriber (callers typically use a UUID).
func (b *Bus) Subscribe(id string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 16)
	b.subscribers[id] = ch
	b.log.Debug().Str("subscriber", id).Msg("Subscriber registered")
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
		b.log.Debug().Str("subscriber", id).Msg("Subscriber removed")
	}
}

// Publish delivers an event to all subscribers without blocking
func (b *Bus) Publish(eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn().Str("subscriber", id).Str("type", string(eventType)).Msg("Subscriber channel full, dropping event")
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
