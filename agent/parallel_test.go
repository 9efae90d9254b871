package agent

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/topic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gated builds a Func agent whose handler records each message and blocks on
// the first one until gate is closed.
func gated(reg *topic.Registry, log *journal, started chan<- struct{}, gate <-chan struct{}) *Func {
	var blocked bool
	return NewFunc(reg,
		Name("Gated"),
		Handler(func(_ string, msg messages.Message, _ Outputs) error {
			if !blocked {
				blocked = true
				close(started)
				<-gate
			}
			log.add(msg.Text())
			return nil
		}),
	)
}

func returnsWithin(d time.Duration, fn func()) bool {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestParallel_SlowCallbackBackpressure(t *testing.T) {
	reg := topic.NewRegistry()
	log := &journal{}
	started, gate := make(chan struct{}), make(chan struct{})

	const capacity = 4
	p := NewParallel(gated(reg, log, started, gate), capacity)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Callback("in", messages.New("0")))
	waitClosed(t, started, "first entry to start")

	for i := 1; i <= capacity; i++ {
		i := i
		assert.True(t, returnsWithin(100*time.Millisecond, func() {
			assert.NoError(t, p.Callback("in", messages.New(strconv.Itoa(i))))
		}), "enqueue %d should not block", i)
	}
	assert.Equal(t, capacity, p.Pending())

	blocked := make(chan struct{})
	go func() {
		assert.NoError(t, p.Callback("in", messages.New("5")))
		close(blocked)
	}()
	select {
	case <-blocked:
		t.Fatal("producer should block while the mailbox is full")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	waitClosed(t, blocked, "blocked producer")
	assert.Eventually(t, func() bool { return len(log.list()) == capacity+2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, log.list())
}

func TestParallel_CloseWaitsForInFlightEntry(t *testing.T) {
	reg := topic.NewRegistry()
	log := &journal{}
	started, gate := make(chan struct{}), make(chan struct{})

	p := NewParallel(gated(reg, log, started, gate), 10)
	require.NoError(t, p.Callback("in", messages.New("1")))
	waitClosed(t, started, "first entry to start")
	require.NoError(t, p.Callback("in", messages.New("2")))
	require.NoError(t, p.Callback("in", messages.New("3")))

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while an entry was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("Close did not return")
	}

	waitClosed(t, p.Done(), "worker exit")
	assert.Equal(t, []string{"1"}, log.list())
	assert.Equal(t, 0, p.Pending())
}

func TestParallel_ClosedRejectsMessages(t *testing.T) {
	p := NewParallel(NewFunc(topic.NewRegistry()), 1)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Callback("in", messages.New("1")), ErrClosed)
	assert.ErrorIs(t, p.Offer(context.Background(), "in", messages.New("1")), ErrClosed)
	assert.NotPanics(t, p.Reset)
}

func TestParallel_ClosesWrappedAgent(t *testing.T) {
	reg := topic.NewRegistry()
	b := NewBinOp(reg, "PlusAgent", "A", "B", "C", Add)
	p := NewParallel(b, 10)

	subs := reg.Get("A").Subscribers()
	require.Len(t, subs, 1)
	assert.Equal(t, topic.Subscriber(p), subs[0])
	assert.Equal(t, "PlusAgent", p.Name())
	assert.Same(t, b, p.Unwrap())

	require.NoError(t, p.Close())
	assert.Empty(t, reg.Get("A").Subscribers())
	assert.Empty(t, reg.Get("C").Publishers())
}

func TestParallel_OfferTimesOut(t *testing.T) {
	reg := topic.NewRegistry()
	log := &journal{}
	started, gate := make(chan struct{}), make(chan struct{})

	p := NewParallel(gated(reg, log, started, gate), 1)
	t.Cleanup(func() {
		close(gate)
		_ = p.Close()
	})

	require.NoError(t, p.Callback("in", messages.New("1")))
	waitClosed(t, started, "first entry to start")
	require.NoError(t, p.Offer(context.Background(), "in", messages.New("2")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Offer(ctx, "in", messages.New("3"))

	var full *MailboxFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, "Gated", full.Agent)
	assert.Equal(t, 1, full.Capacity)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParallel_ShutdownTimeout(t *testing.T) {
	reg := topic.NewRegistry()
	log := &journal{}
	started, gate := make(chan struct{}), make(chan struct{})

	p := NewParallel(gated(reg, log, started, gate), 1, ShutdownTimeout(30*time.Millisecond))
	require.NoError(t, p.Callback("in", messages.New("1")))
	waitClosed(t, started, "first entry to start")

	err := p.Close()
	var timeout *ShutdownTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 30*time.Millisecond, timeout.Timeout)
	assert.Same(t, err, p.Close())

	close(gate)
	waitClosed(t, p.Done(), "detached worker exit")
	assert.Equal(t, []string{"1"}, log.list())
}

func TestParallel_FaultsDoNotStopWorker(t *testing.T) {
	reg := topic.NewRegistry()
	log := &journal{}
	done := make(chan struct{})

	p := NewParallel(NewFunc(reg,
		Handler(func(_ string, msg messages.Message, _ Outputs) error {
			switch msg.Text() {
			case "panic":
				panic("kaboom")
			case "error":
				return errors.New("boom")
			case "last":
				close(done)
			}
			log.add(msg.Text())
			return nil
		}),
	), 10)
	t.Cleanup(func() { _ = p.Close() })

	for _, text := range []string{"1", "panic", "2", "error", "3", "last"} {
		require.NoError(t, p.Callback("in", messages.New(text)))
	}
	waitClosed(t, done, "last entry")
	assert.Equal(t, []string{"1", "2", "3"}, log.list())
}

func TestParallel_ResetIsOrderedWithMessages(t *testing.T) {
	reg := topic.NewRegistry()
	log := &journal{}
	done := make(chan struct{})

	p := NewParallel(NewFunc(reg,
		OnReset(func() { log.add("reset") }),
		Handler(func(_ string, msg messages.Message, _ Outputs) error {
			log.add(msg.Text())
			if msg.Text() == "b" {
				close(done)
			}
			return nil
		}),
	), 10)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Callback("in", messages.New("a")))
	p.Reset()
	require.NoError(t, p.Callback("in", messages.New("b")))

	waitClosed(t, done, "second message")
	assert.Equal(t, []string{"reset", "a", "reset", "b"}, log.list())
}

func TestParallel_Properties(t *testing.T) {
	p := NewParallel(NewFunc(topic.NewRegistry(), Name("Props")), 0)
	t.Cleanup(func() { _ = p.Close() })

	assert.Equal(t, 1, p.Capacity())
	assert.Equal(t, 0, p.Pending())
	assert.Equal(t, "Props", p.Name())
	assert.NotEqual(t, [16]byte{}, [16]byte(p.ID()))
	assert.EqualValues(t, 7, p.ID().Version())
}

func TestParallel_ActiveWorkers(t *testing.T) {
	before := ActiveWorkers()
	p := NewParallel(NewFunc(topic.NewRegistry()), 1)
	assert.Equal(t, before+1, ActiveWorkers())

	require.NoError(t, p.Close())
	assert.Equal(t, before, ActiveWorkers())
}

// external is an agent written without the package helpers: it subscribes
// itself at construction and reports that topic through Subscriptions.
type external struct {
	in    *topic.Topic
	calls chan string
	gate  chan struct{}
}

func newExternal(reg *topic.Registry, name string) *external {
	e := &external{in: reg.Get(name), calls: make(chan string, 10), gate: make(chan struct{})}
	e.in.Subscribe(e)
	return e
}

func (e *external) Name() string                  { return "External" }
func (e *external) Reset()                        {}
func (e *external) Subscriptions() []*topic.Topic { return []*topic.Topic{e.in} }
func (e *external) Publications() []*topic.Topic  { return nil }

func (e *external) Callback(_ string, msg messages.Message) error {
	<-e.gate
	e.calls <- msg.Text()
	return nil
}

func (e *external) Close() error {
	e.in.Unsubscribe(e)
	return nil
}

func TestParallel_TakesOverExternalAgent(t *testing.T) {
	reg := topic.NewRegistry()
	ext := newExternal(reg, "in")
	p := NewParallel(ext, 10)
	t.Cleanup(func() { _ = p.Close() })

	subs := reg.Get("in").Subscribers()
	require.Len(t, subs, 1)
	assert.Same(t, p, subs[0])
	assert.Equal(t, []*topic.Topic{reg.Get("in")}, p.Subscriptions())

	assert.True(t, returnsWithin(100*time.Millisecond, func() {
		assert.NoError(t, reg.Get("in").Publish(messages.New("1")))
	}), "publisher must not run the agent's callback")

	close(ext.gate)
	select {
	case got := <-ext.calls:
		assert.Equal(t, "1", got)
	case <-time.After(waitTimeout):
		t.Fatal("worker did not deliver the message")
	}
}

func TestParallel_TakesOverRepeatedTopicOnce(t *testing.T) {
	reg := topic.NewRegistry()
	out := newSink(reg, "C")
	p := NewParallel(NewBinOp(reg, "MulAgent", "A", "A", "C", Mul), 10)
	t.Cleanup(func() { _ = p.Close() })

	assert.Len(t, p.Subscriptions(), 1)
	require.NoError(t, reg.Get("A").Publish(messages.New("3")))
	assert.Equal(t, "9", out.next(t).Text())

	require.NoError(t, p.Close())
	assert.Empty(t, reg.Get("A").Subscribers())
}
