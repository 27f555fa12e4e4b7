// Package events carries in-process notifications about user actions.
package events

import (
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
)

const (
	TopicSignedIn             = "auth.signed_in"
	TopicPaymentIntentCreated = "payment.intent_created"
	TopicExchangeRequested    = "exchange.requested"
)

// Topics lists every topic published by the application.
var Topics = []string{TopicSignedIn, TopicPaymentIntentCreated, TopicExchangeRequested}

// Event is a single published action.
type Event struct {
	Topic  string                 `json:"topic"`
	Actor  string                 `json:"actor"`
	Detail map[string]interface{} `json:"detail,omitempty"`
	At     time.Time              `json:"at"`
}

// Publisher is implemented by anything that accepts events.
type Publisher interface {
	Publish(ev Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}

// Bus fans events out to subscribers by topic.
type Bus struct {
	bus evbus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// Publish delivers ev to the subscribers of ev.Topic. Handlers run on the
// caller's goroutine, so they must hand off slow work.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.bus.Publish(ev.Topic, ev)
}

// Subscribe registers fn for topic.
func (b *Bus) Subscribe(topic string, fn func(Event)) error {
	if err := b.bus.Subscribe(topic, fn); err != nil {
		return errors.Wrapf(err, "subscribe %s", topic)
	}
	return nil
}

func (b *Bus) HasSubscribers(topic string) bool {
	return b.bus.HasCallback(topic)
}
