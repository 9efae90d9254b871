package agent

import (
	"sync"
	"testing"
	"time"

	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/topic"
)

const waitTimeout = 2 * time.Second

// sink records every message published on one topic.
type sink struct {
	name string
	ch   chan messages.Message
}

func newSink(reg *topic.Registry, name string) *sink {
	s := &sink{name: "sink-" + name, ch: make(chan messages.Message, 100)}
	reg.Get(name).Subscribe(s)
	return s
}

func (s *sink) Name() string { return s.name }

func (s *sink) Callback(_ string, msg messages.Message) error {
	s.ch <- msg
	return nil
}

func (s *sink) next(t *testing.T) messages.Message {
	t.Helper()
	select {
	case msg := <-s.ch:
		return msg
	case <-time.After(waitTimeout):
		t.Fatalf("%s: timed out waiting for a message", s.name)
		return messages.Message{}
	}
}

func (s *sink) none(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case msg := <-s.ch:
		t.Fatalf("%s: unexpected message %q", s.name, msg.Text())
	case <-time.After(wait):
	}
}

// journal is a goroutine safe list of events.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	j.entries = append(j.entries, s)
	j.mu.Unlock()
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}
