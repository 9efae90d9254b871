package agent

import (
	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/topic"
	"github.com/fogfish/opts"
	"github.com/hashicorp/go-multierror"
)

// Outputs are the publication topics handed to a HandlerFunc.
type Outputs []*topic.Topic

// Publish sends msg to every output topic and aggregates delivery errors.
func (o Outputs) Publish(msg messages.Message) error {
	var result *multierror.Error
	for _, t := range o {
		if err := t.Publish(msg); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// HandlerFunc is the logic of a Func agent.
type HandlerFunc func(topic string, msg messages.Message, out Outputs) error

var _ Agent = (*Func)(nil)

// Func is an agent whose reaction to messages is supplied by the caller.
type Func struct {
	name          string
	subscriptions []string
	publications  []string
	handler       HandlerFunc
	onReset       func()

	wiring
}

var (
	Name          = opts.ForName[Func, string]("name")
	Subscriptions = opts.ForName[Func, []string]("subscriptions")
	Publications  = opts.ForName[Func, []string]("publications")
)

func Handler(fn HandlerFunc) opts.Option[Func] {
	return opts.Type[Func](func(f *Func) error {
		f.handler = fn
		return nil
	})
}

func OnReset(fn func()) opts.Option[Func] {
	return opts.Type[Func](func(f *Func) error {
		f.onReset = fn
		return nil
	})
}

// NewFunc creates a Func agent and connects it to its topics.
func NewFunc(reg *topic.Registry, options ...opts.Option[Func]) *Func {
	agent := &Func{name: "FuncAgent"}
	if err := opts.Apply(agent, options); err != nil {
		panic(err)
	}
	agent.wiring = wire(reg, agent, agent.subscriptions, agent.publications)
	return agent
}

func (f *Func) Name() string {
	return f.name
}

func (f *Func) Reset() {
	if f.onReset != nil {
		f.onReset()
	}
}

func (f *Func) Callback(topic string, msg messages.Message) error {
	if f.handler == nil {
		return nil
	}
	return f.handler(topic, msg, Outputs(f.pubs))
}

func (f *Func) Close() error {
	f.release(f)
	return nil
}
