package agent

import (
	"log/slog"
	"slices"

	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/casualjim/plexus/topic"
)

// Agent is a computational unit connected to topics by name.
type Agent interface {
	topic.Subscriber
	Bindings
	// Reset clears any buffered state.
	Reset()
	// Close releases every topic the agent touched at construction.
	Close() error
}

// Bindings reports the topics an agent subscribed itself to, and published
// on, when it was constructed. Parallel takes over every reported
// subscription, so an agent must list each topic it subscribed to.
type Bindings interface {
	Subscriptions() []*topic.Topic
	Publications() []*topic.Topic
}

type wiring struct {
	subs []*topic.Topic
	pubs []*topic.Topic
}

func wire(reg *topic.Registry, self topic.Subscriber, subs, pubs []string) wiring {
	var w wiring
	for _, name := range subs {
		t := reg.Get(name)
		t.Subscribe(self)
		w.subs = append(w.subs, t)
	}
	for _, name := range pubs {
		t := reg.Get(name)
		t.AddPublisher(self)
		w.pubs = append(w.pubs, t)
	}
	return w
}

func (w wiring) Subscriptions() []*topic.Topic {
	return slices.Clone(w.subs)
}

func (w wiring) Publications() []*topic.Topic {
	return slices.Clone(w.pubs)
}

func (w wiring) release(self topic.Subscriber) {
	for _, t := range w.subs {
		t.Unsubscribe(self)
	}
	for _, t := range w.pubs {
		t.RemovePublisher(self)
	}
}

// emit publishes msg on t. Delivery faults are logged by the topic and do not
// fail the emitting agent.
func emit(t *topic.Topic, msg messages.Message) {
	if err := t.Publish(msg); err != nil {
		slog.Debug("downstream delivery failed", slogx.LoggerName("agent"), slogx.Topic(t.Name()), slogx.Error(err))
	}
}

func first(names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}
