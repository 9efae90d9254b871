package agent

import (
	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/topic"
)

var _ Agent = (*Inc)(nil)

// Inc republishes every numeric message of its first subscription, plus one,
// on its first publication. Either list may be empty, which leaves the agent
// inert.
type Inc struct {
	in  string
	out *topic.Topic

	wiring
}

func NewInc(reg *topic.Registry, subs, pubs []string) *Inc {
	agent := &Inc{}
	var in, out []string
	if name, ok := first(subs); ok {
		agent.in = name
		in = []string{name}
	}
	if name, ok := first(pubs); ok {
		out = []string{name}
	}
	agent.wiring = wire(reg, agent, in, out)
	if len(agent.pubs) > 0 {
		agent.out = agent.pubs[0]
	}
	return agent
}

func (i *Inc) Name() string {
	return "IncAgent"
}

func (i *Inc) Reset() {}

func (i *Inc) Callback(topic string, msg messages.Message) error {
	if len(i.subs) == 0 || topic != i.in || i.out == nil || msg.IsNaN() {
		return nil
	}
	emit(i.out, messages.FromFloat(msg.Float()+1))
	return nil
}

func (i *Inc) Close() error {
	i.release(i)
	return nil
}
