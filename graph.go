package plexus

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/casualjim/plexus/agent"
	"github.com/casualjim/plexus/descriptor"
	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/casualjim/plexus/topic"
	"github.com/fogfish/opts"
	"github.com/hashicorp/go-multierror"
)

// Graph turns descriptors into running agents and owns them until the next
// load or Close.
type Graph struct {
	registry        *topic.Registry
	factories       *agent.Factories
	mailboxCapacity int
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu         sync.Mutex
	agents     []*agent.Parallel
	generation uint64
	source     string
}

func New(options ...opts.Option[Graph]) *Graph {
	g := &Graph{
		factories:       agent.Global,
		mailboxCapacity: DefaultMailboxCapacity,
		shutdownTimeout: agent.DefaultShutdownTimeout,
		logger:          slog.Default(),
	}
	if err := opts.Apply(g, options); err != nil {
		panic(err)
	}
	if g.registry == nil {
		g.registry = topic.NewRegistry(topic.WithLogger(g.logger))
	}
	g.logger = g.logger.With(slogx.LoggerName("graph"))
	return g
}

// Load closes the current generation and builds a new one from descs. Failing
// descriptors are skipped; the returned error lists all of them.
func (g *Graph) Load(descs []descriptor.Descriptor) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var result *multierror.Error
	if err := g.closeLocked(); err != nil {
		result = multierror.Append(result, err)
	}
	g.source = ""
	if err := g.build(descs); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// LoadFile points the graph at a descriptor file. The current generation is
// closed first, even when the file turns out to be invalid. A
// *descriptor.FormatError rejects the whole file.
func (g *Graph) LoadFile(path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var result *multierror.Error
	if err := g.closeLocked(); err != nil {
		result = multierror.Append(result, err)
	}
	g.source = path

	descs, err := descriptor.ParseFile(path)
	if err != nil {
		g.generation++
		g.logger.Error("rejected descriptors", slog.String("source", path), slogx.Error(err))
		return multierror.Append(result, err).ErrorOrNil()
	}
	if err := g.build(descs); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (g *Graph) build(descs []descriptor.Descriptor) error {
	g.generation++

	var result *multierror.Error
	for i, desc := range descs {
		a, err := g.factories.Create(g.registry, desc.Type, desc.Subscriptions, desc.Publications)
		if err != nil {
			g.logger.Error("skipped descriptor", slog.Int("index", i), slog.String("type", desc.Type), slogx.Error(err))
			result = multierror.Append(result, fmt.Errorf("descriptor %d: %w", i, err))
			continue
		}
		g.agents = append(g.agents, agent.NewParallel(a, g.mailboxCapacity,
			agent.ShutdownTimeout(g.shutdownTimeout),
			agent.WithLogger(g.logger),
		))
	}

	g.logger.Info("graph loaded",
		slog.Uint64("generation", g.generation),
		slog.Int("agents", len(g.agents)),
		slog.Int("skipped", len(descs)-len(g.agents)),
	)
	return result.ErrorOrNil()
}

func (g *Graph) closeLocked() error {
	if len(g.agents) == 0 {
		return nil
	}

	var result *multierror.Error
	for _, a := range g.agents {
		if err := a.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	g.logger.Info("graph closed", slog.Uint64("generation", g.generation), slog.Int("agents", len(g.agents)))
	g.agents = nil
	return result.ErrorOrNil()
}

// Close shuts down every agent of the current generation and waits for their
// workers to exit.
func (g *Graph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closeLocked()
}

// Publish publishes msg on the named topic.
func (g *Graph) Publish(topicName string, msg messages.Message) error {
	return g.registry.Get(topicName).Publish(msg)
}

// Agents returns the agents of the current generation in descriptor order.
func (g *Graph) Agents() []*agent.Parallel {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.agents)
}

// Names returns the agent names of the current generation in descriptor order.
func (g *Graph) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.agents))
	for _, a := range g.agents {
		names = append(names, a.Name())
	}
	return names
}

// Generation counts the loads performed so far.
func (g *Graph) Generation() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

// Source returns the file of the last LoadFile, empty after Load.
func (g *Graph) Source() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.source
}

func (g *Graph) Registry() *topic.Registry {
	return g.registry
}

func (g *Graph) Factories() *agent.Factories {
	return g.factories
}
