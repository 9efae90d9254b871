package registry

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/alphadose/haxmap"
)

// Registry is a concurrent name keyed store. GetOrAdd is an atomic
// compare-and-create: concurrent callers for the same name all observe the
// first value inserted, and valueFn runs at most once per name.
type Registry[T any] interface {
	Get(name string) (T, bool)
	Add(name string, value T)
	GetOrAdd(name string, value func() T) (T, bool)
	Del(name string)
	Len() int
	Names() []string
	ForEach(fn func(name string, value T) bool)
	Reset()
}

type registry[T any] struct {
	values atomic.Pointer[haxmap.Map[string, T]]
	// writes serializes every mutation; reads go straight to the map
	writes sync.Mutex
}

func New[T any]() Registry[T] {
	r := &registry[T]{}
	r.values.Store(haxmap.New[string, T]())
	return r
}

func (r *registry[T]) Get(name string) (T, bool) {
	return r.values.Load().Get(name)
}

func (r *registry[T]) Add(name string, value T) {
	r.writes.Lock()
	defer r.writes.Unlock()
	r.values.Load().Set(name, value)
}

// GetOrAdd returns the value stored under name, calling valueFn to create it
// when there is none. The boolean reports whether the value already existed.
func (r *registry[T]) GetOrAdd(name string, valueFn func() T) (T, bool) {
	if v, ok := r.values.Load().Get(name); ok {
		return v, true
	}

	r.writes.Lock()
	defer r.writes.Unlock()
	values := r.values.Load()
	if v, ok := values.Get(name); ok {
		return v, true
	}
	v := valueFn()
	values.Set(name, v)
	return v, false
}

func (r *registry[T]) Del(name string) {
	r.writes.Lock()
	defer r.writes.Unlock()
	r.values.Load().Del(name)
}

func (r *registry[T]) Len() int {
	return int(r.values.Load().Len())
}

// Names returns the registered names in sorted order.
func (r *registry[T]) Names() []string {
	var names []string
	r.values.Load().ForEach(func(name string, _ T) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

func (r *registry[T]) ForEach(fn func(name string, value T) bool) {
	r.values.Load().ForEach(fn)
}

// Reset swaps in an empty map. Values handed out before the reset stay valid
// but are no longer reachable by name.
func (r *registry[T]) Reset() {
	r.writes.Lock()
	defer r.writes.Unlock()
	r.values.Store(haxmap.New[string, T]())
}
