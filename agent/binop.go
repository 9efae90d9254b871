package agent

import (
	"github.com/casualjim/plexus/messages"
	"github.com/casualjim/plexus/topic"
)

// Operator combines the two inputs of a BinOp.
type Operator func(a, b float64) float64

var (
	Add Operator = func(a, b float64) float64 { return a + b }
	Sub Operator = func(a, b float64) float64 { return a - b }
	Mul Operator = func(a, b float64) float64 { return a * b }
	Div Operator = func(a, b float64) float64 { return a / b }
)

var _ Agent = (*BinOp)(nil)

// BinOp keeps the latest message of two input topics and publishes op(a, b)
// whenever both are numeric. The buffered inputs survive a firing, so a new
// value on either side fires again with the other side's last value.
type BinOp struct {
	name string
	in1  string
	in2  string
	out  *topic.Topic
	op   Operator

	a, b       messages.Message
	hasA, hasB bool

	wiring
}

func NewBinOp(reg *topic.Registry, name, in1, in2, out string, op Operator) *BinOp {
	agent := &BinOp{
		name: name,
		in1:  in1,
		in2:  in2,
		op:   op,
	}
	agent.wiring = wire(reg, agent, []string{in1, in2}, []string{out})
	agent.out = agent.pubs[0]
	return agent
}

func (b *BinOp) Name() string {
	return b.name
}

func (b *BinOp) Reset() {
	b.a, b.hasA = messages.Message{}, false
	b.b, b.hasB = messages.Message{}, false
}

func (b *BinOp) Callback(topic string, msg messages.Message) error {
	if topic != b.in1 && topic != b.in2 {
		return nil
	}
	if topic == b.in1 {
		b.a, b.hasA = msg, true
	}
	if topic == b.in2 {
		b.b, b.hasB = msg, true
	}

	if b.hasA && b.hasB && !b.a.IsNaN() && !b.b.IsNaN() {
		emit(b.out, messages.FromFloat(b.op(b.a.Float(), b.b.Float())))
	}
	return nil
}

func (b *BinOp) Close() error {
	b.release(b)
	return nil
}
