package topic

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/hashicorp/go-multierror"
)

// Topic is a named broadcast channel. Obtain topics from a Registry.
type Topic struct {
	name   string
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers []Subscriber
	publishers  []Named
	last        messages.Message
}

func newTopic(name string, logger *slog.Logger) *Topic {
	return &Topic{
		name:   name,
		logger: logger.With(slogx.Topic(name)),
		last:   messages.FromFloat(0),
	}
}

func (t *Topic) Name() string {
	return t.name
}

func (t *Topic) String() string {
	return t.name
}

// Subscribe adds s to the end of the subscriber list. Subscribing twice is a
// no-op.
func (t *Topic) Subscribe(s Subscriber) {
	mustBeComparable(s)
	t.mu.Lock()
	defer t.mu.Unlock()
	if !slices.Contains(t.subscribers, s) {
		t.subscribers = append(t.subscribers, s)
	}
}

// Unsubscribe removes s. Unknown subscribers are ignored.
func (t *Topic) Unsubscribe(s Subscriber) {
	mustBeComparable(s)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = slices.DeleteFunc(t.subscribers, func(v Subscriber) bool { return v == s })
}

// Replace swaps old for s at the same position in the subscriber list. It
// reports false, leaving the list untouched, when old is not subscribed.
func (t *Topic) Replace(old, s Subscriber) bool {
	mustBeComparable(old)
	mustBeComparable(s)
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := slices.Index(t.subscribers, old)
	if idx < 0 {
		return false
	}
	if slices.Contains(t.subscribers, s) {
		t.subscribers = slices.Delete(t.subscribers, idx, idx+1)
		return true
	}
	t.subscribers[idx] = s
	return true
}

// AddPublisher records p as a publisher. Publishing is not restricted to
// registered publishers.
func (t *Topic) AddPublisher(p Named) {
	mustBeComparable(p)
	t.mu.Lock()
	defer t.mu.Unlock()
	if !slices.Contains(t.publishers, p) {
		t.publishers = append(t.publishers, p)
	}
}

func (t *Topic) RemovePublisher(p Named) {
	mustBeComparable(p)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publishers = slices.DeleteFunc(t.publishers, func(v Named) bool { return v == p })
}

// Subscribers returns a snapshot of the subscriber list in subscription order.
func (t *Topic) Subscribers() []Subscriber {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.subscribers)
}

func (t *Topic) Publishers() []Named {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.publishers)
}

// LastMessage returns the most recently published message, or the numeric
// message 0 when nothing was published yet.
func (t *Topic) LastMessage() messages.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// Publish records msg as the last message and delivers it to every current
// subscriber, in subscription order, on the calling goroutine.
//
// The subscriber list is snapshotted before delivery starts. A subscriber that
// fails or panics is logged and skipped; the returned error aggregates one
// *DeliveryError per failed subscriber and is nil when all succeeded.
func (t *Topic) Publish(msg messages.Message) error {
	t.mu.Lock()
	t.last = msg
	subs := slices.Clone(t.subscribers)
	t.mu.Unlock()

	var result *multierror.Error
	for _, sub := range subs {
		if err := t.deliver(sub, msg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (t *Topic) deliver(sub Subscriber, msg messages.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("subscriber panicked", slogx.Agent(sub.Name()), slogx.Panic(r))
			err = &DeliveryError{
				Topic:      t.name,
				Subscriber: sub.Name(),
				Panicked:   true,
				Cause:      fmt.Errorf("%v", r),
			}
		}
	}()

	if cerr := sub.Callback(t.name, msg); cerr != nil {
		t.logger.Warn("subscriber failed", slogx.Agent(sub.Name()), slogx.Error(cerr))
		return &DeliveryError{Topic: t.name, Subscriber: sub.Name(), Cause: cerr}
	}
	return nil
}

// Info returns a point in time view of the topic.
func (t *Topic) Info() Info {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info := Info{
		Name:        t.name,
		Subscribers: make([]string, 0, len(t.subscribers)),
		Publishers:  make([]string, 0, len(t.publishers)),
		LastMessage: t.last,
	}
	for _, s := range t.subscribers {
		info.Subscribers = append(info.Subscribers, s.Name())
	}
	for _, p := range t.publishers {
		info.Publishers = append(info.Publishers, p.Name())
	}
	return info
}

func mustBeComparable(v Named) {
	if v == nil {
		panic("topic: nil member")
	}
	if !reflect.TypeOf(v).Comparable() {
		panic(fmt.Sprintf("topic: member of type %T is not comparable", v))
	}
}
