package agent

import "github.com/casualjim/plexus/topic"

// Global is the factory set used when no other is configured.
var Global = NewFactories()

func Register(typ string, factory Factory) {
	Global.Register(typ, factory)
}

func Lookup(typ string) (Factory, bool) {
	return Global.Lookup(typ)
}

func Create(reg *topic.Registry, typ string, subs, pubs []string) (Agent, error) {
	return Global.Create(reg, typ, subs, pubs)
}
