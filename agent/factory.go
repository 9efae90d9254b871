package agent

import (
	"fmt"
	"strings"

	"github.com/casualjim/plexus/internal/registry"
	"github.com/casualjim/plexus/topic"
)

// Factory builds an agent for a descriptor's subscription and publication
// topic names.
type Factory func(reg *topic.Registry, subs, pubs []string) (Agent, error)

// Factories resolves agent type names to factories.
type Factories struct {
	factories registry.Registry[Factory]
}

// NewFactories returns a factory set holding the built-in agent types.
func NewFactories() *Factories {
	f := &Factories{factories: registry.New[Factory]()}
	f.Register("PlusAgent", BinOpFactory("PlusAgent", Add))
	f.Register("MinusAgent", BinOpFactory("MinusAgent", Sub))
	f.Register("MulAgent", BinOpFactory("MulAgent", Mul))
	f.Register("DivAgent", BinOpFactory("DivAgent", Div))
	f.Register("IncAgent", IncFactory)
	return f
}

// Register adds or replaces the factory for typ.
func (f *Factories) Register(typ string, factory Factory) {
	f.factories.Add(typ, factory)
}

// Lookup finds the factory for typ. Qualified names such as
// "configs.PlusAgent" fall back to their last dot separated segment.
func (f *Factories) Lookup(typ string) (Factory, bool) {
	typ = strings.TrimSpace(typ)
	if factory, ok := f.factories.Get(typ); ok {
		return factory, true
	}
	if idx := strings.LastIndexByte(typ, '.'); idx >= 0 {
		return f.factories.Get(typ[idx+1:])
	}
	return nil, false
}

// Names returns the registered type names in sorted order.
func (f *Factories) Names() []string {
	return f.factories.Names()
}

// Create resolves typ and runs its factory. A panicking factory is reported as
// a *ConstructionError.
func (f *Factories) Create(reg *topic.Registry, typ string, subs, pubs []string) (agent Agent, err error) {
	factory, ok := f.Lookup(typ)
	if !ok {
		return nil, &UnknownAgentTypeError{Type: typ}
	}

	defer func() {
		if r := recover(); r != nil {
			agent = nil
			err = &ConstructionError{Type: typ, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	agent, err = factory(reg, subs, pubs)
	if err != nil {
		return nil, &ConstructionError{Type: typ, Cause: err}
	}
	if agent == nil {
		return nil, &ConstructionError{Type: typ, Cause: fmt.Errorf("factory returned no agent")}
	}
	return agent, nil
}

// BinOpFactory builds a BinOp over subs[0], subs[1] and pubs[0]. Extra topic
// names are ignored.
func BinOpFactory(name string, op Operator) Factory {
	return func(reg *topic.Registry, subs, pubs []string) (Agent, error) {
		if len(subs) < 2 {
			return nil, fmt.Errorf("%s needs 2 subscriptions, got %d", name, len(subs))
		}
		if len(pubs) < 1 {
			return nil, fmt.Errorf("%s needs 1 publication, got none", name)
		}
		return NewBinOp(reg, name, subs[0], subs[1], pubs[0], op), nil
	}
}

// IncFactory builds an Inc agent.
func IncFactory(reg *topic.Registry, subs, pubs []string) (Agent, error) {
	return NewInc(reg, subs, pubs), nil
}
