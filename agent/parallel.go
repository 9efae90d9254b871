package agent

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/casualjim/plexus/pkg/uuidx"
	"github.com/casualjim/plexus/topic"
	"github.com/fogfish/opts"
	"github.com/google/uuid"
)

// DefaultShutdownTimeout bounds how long Close waits for a worker.
const DefaultShutdownTimeout = 5 * time.Second

var (
	ShutdownTimeout = opts.ForName[Parallel, time.Duration]("shutdownTimeout")
	WithLogger      = opts.ForName[Parallel, *slog.Logger]("logger")
)

var activeWorkers atomic.Int64

// ActiveWorkers returns the number of Parallel workers that have not exited.
func ActiveWorkers() int64 {
	return activeWorkers.Load()
}

type entry struct {
	topic string
	msg   messages.Message
	reset bool
}

var _ Agent = (*Parallel)(nil)

// Parallel runs one agent on a dedicated worker goroutine. Callback enqueues
// into a bounded mailbox and returns; the worker delivers entries to the
// wrapped agent one at a time, in arrival order.
//
// Parallel takes the wrapped agent's place in the subscriber list of every
// topic it reports through Subscriptions, so publishers reach the mailbox
// instead of the agent.
type Parallel struct {
	agent           Agent
	id              uuid.UUID
	mailbox         chan entry
	stop            chan struct{}
	done            chan struct{}
	shutdownTimeout time.Duration
	logger          *slog.Logger
	subs            []*topic.Topic

	closeOnce sync.Once
	closeErr  error
	agentErr  error
}

// NewParallel wraps a and starts its worker. A capacity below 1 is raised to 1.
func NewParallel(a Agent, capacity int, options ...opts.Option[Parallel]) *Parallel {
	if capacity < 1 {
		capacity = 1
	}
	p := &Parallel{
		agent:           a,
		id:              uuidx.New(),
		mailbox:         make(chan entry, capacity),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.logger = p.logger.With(
		slogx.LoggerName("agent"),
		slogx.Agent(a.Name()),
		slog.String("worker", uuidx.Short(p.id)),
	)

	for _, t := range a.Subscriptions() {
		if slices.Contains(p.subs, t) {
			continue
		}
		if t.Replace(a, p) {
			p.subs = append(p.subs, t)
		} else {
			p.logger.Warn("agent is not subscribed to a reported topic", slogx.Topic(t.Name()))
		}
	}

	activeWorkers.Add(1)
	go p.run()
	return p
}

func (p *Parallel) Name() string {
	return p.agent.Name()
}

// ID identifies this worker in logs.
func (p *Parallel) ID() uuid.UUID {
	return p.id
}

// Subscriptions returns the topics this Parallel took over.
func (p *Parallel) Subscriptions() []*topic.Topic {
	return slices.Clone(p.subs)
}

func (p *Parallel) Publications() []*topic.Topic {
	return p.agent.Publications()
}

// Unwrap returns the wrapped agent.
func (p *Parallel) Unwrap() Agent {
	return p.agent
}

// Pending returns the number of queued entries.
func (p *Parallel) Pending() int {
	return len(p.mailbox)
}

func (p *Parallel) Capacity() int {
	return cap(p.mailbox)
}

// Done is closed once the worker has exited.
func (p *Parallel) Done() <-chan struct{} {
	return p.done
}

// Callback enqueues msg for the worker. It blocks while the mailbox is full
// and returns ErrClosed once the agent is closed.
func (p *Parallel) Callback(topic string, msg messages.Message) error {
	return p.enqueue(context.Background(), entry{topic: topic, msg: msg})
}

// Offer is Callback with a bound on how long to wait for mailbox space.
func (p *Parallel) Offer(ctx context.Context, topic string, msg messages.Message) error {
	return p.enqueue(ctx, entry{topic: topic, msg: msg})
}

// Reset queues a reset behind every entry already in the mailbox.
func (p *Parallel) Reset() {
	if err := p.enqueue(context.Background(), entry{reset: true}); err != nil {
		p.logger.Debug("reset ignored", slogx.Error(err))
	}
}

func (p *Parallel) enqueue(ctx context.Context, e entry) error {
	select {
	case <-p.stop:
		return ErrClosed
	default:
	}

	select {
	case p.mailbox <- e:
		return nil
	case <-p.stop:
		return ErrClosed
	case <-ctx.Done():
		return &MailboxFullError{Agent: p.Name(), Capacity: cap(p.mailbox), Cause: ctx.Err()}
	}
}

// Close stops the worker and waits for it to exit. The entry being processed
// completes; queued entries are discarded and counted in the log. The wrapped
// agent is closed by the worker on its way out. When the worker does not exit
// within the shutdown window Close returns a *ShutdownTimeoutError and leaves
// the worker to finish on its own.
func (p *Parallel) Close() error {
	p.closeOnce.Do(func() {
		for _, t := range p.subs {
			t.Unsubscribe(p)
		}
		close(p.stop)

		timer := time.NewTimer(p.shutdownTimeout)
		defer timer.Stop()
		select {
		case <-p.done:
			p.closeErr = p.agentErr
		case <-timer.C:
			p.logger.Error("worker did not stop in time", slogx.Stringer("timeout", p.shutdownTimeout))
			p.closeErr = &ShutdownTimeoutError{Agent: p.Name(), Timeout: p.shutdownTimeout}
		}
	})
	return p.closeErr
}

func (p *Parallel) run() {
	defer close(p.done)
	defer activeWorkers.Add(-1)
	defer p.closeAgent()

	p.safely("reset", func() error {
		p.agent.Reset()
		return nil
	})

	for {
		// stop wins over a non-empty mailbox
		select {
		case <-p.stop:
			p.discard()
			return
		default:
		}

		select {
		case <-p.stop:
			p.discard()
			return
		case e := <-p.mailbox:
			p.process(e)
		}
	}
}

func (p *Parallel) process(e entry) {
	if e.reset {
		p.safely("reset", func() error {
			p.agent.Reset()
			return nil
		})
		return
	}
	p.safely("callback", func() error {
		return p.agent.Callback(e.topic, e.msg)
	})
}

func (p *Parallel) safely(op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("agent panicked", slog.String("op", op), slogx.Panic(r))
		}
	}()
	if err := fn(); err != nil {
		p.logger.Warn("agent failed", slog.String("op", op), slogx.Error(err))
	}
}

func (p *Parallel) discard() {
	var n int
	for {
		select {
		case <-p.mailbox:
			n++
		default:
			if n > 0 {
				p.logger.Warn("discarded pending entries", slog.Int("count", n))
			}
			return
		}
	}
}

func (p *Parallel) closeAgent() {
	defer func() {
		if r := recover(); r != nil {
			p.agentErr = fmt.Errorf("agent %q: close panicked: %v", p.Name(), r)
			p.logger.Error("agent close panicked", slogx.Panic(r))
		}
	}()
	if err := p.agent.Close(); err != nil {
		p.agentErr = err
		p.logger.Warn("agent close failed", slogx.Error(err))
	}
}
