package topic

import (
	"log/slog"

	"github.com/casualjim/plexus/internal/registry"
	"github.com/casualjim/plexus/pkg/slogx"
	"github.com/fogfish/opts"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WithLogger sets the logger topics report delivery failures to.
var WithLogger = opts.ForName[Registry, *slog.Logger]("logger")

// Registry owns every topic of a graph. Topics are created on first use and
// are never removed, except by Reset.
type Registry struct {
	topics registry.Registry[*Topic]
	logger *slog.Logger
}

func NewRegistry(options ...opts.Option[Registry]) *Registry {
	r := &Registry{
		topics: registry.New[*Topic](),
		logger: slog.Default(),
	}
	if err := opts.Apply(r, options); err != nil {
		panic(err)
	}
	r.logger = r.logger.With(slogx.LoggerName("topic"))
	return r
}

// Get returns the topic for name, creating it when needed. Concurrent callers
// asking for the same name always get the same *Topic.
func (r *Registry) Get(name string) *Topic {
	t, _ := r.topics.GetOrAdd(name, func() *Topic {
		return newTopic(name, r.logger)
	})
	r.verify(name, t)
	return t
}

// verify panics unless t is the topic stored under name. A missing entry is
// tolerated: it only happens when Reset raced with Get.
func (r *Registry) verify(name string, t *Topic) {
	if t.name != name {
		panic(&InvariantError{Requested: name, Found: t.name})
	}
	if stored, ok := r.topics.Get(name); ok && stored != t {
		panic(&InvariantError{Requested: name, Found: stored.name, Detached: true})
	}
}

// Lookup returns the topic for name without creating it.
func (r *Registry) Lookup(name string) (*Topic, bool) {
	return r.topics.Get(name)
}

// Names returns all topic names in sorted order.
func (r *Registry) Names() []string {
	return r.topics.Names()
}

func (r *Registry) Len() int {
	return r.topics.Len()
}

// Reset forgets every topic. Handles obtained earlier keep working but are
// detached from the registry. Meant for test isolation: it must not race with
// Get.
func (r *Registry) Reset() {
	r.topics.Reset()
}

// Snapshot returns the Info of every topic keyed by name, in name order.
func (r *Registry) Snapshot() *orderedmap.OrderedMap[string, Info] {
	snap := orderedmap.New[string, Info]()
	for _, name := range r.topics.Names() {
		if t, ok := r.topics.Get(name); ok {
			snap.Set(name, t.Info())
		}
	}
	return snap
}
