// Package agent provides the computational units of a plexus graph and the
// Parallel wrapper that runs each of them on a dedicated worker.
//
// An Agent subscribes to input topics, reacts in Callback and publishes on
// output topics. The built-in agents are:
//   - BinOp: combines the latest numbers of two inputs (PlusAgent, MinusAgent, MulAgent, DivAgent)
//   - Inc: republishes every number plus one (IncAgent)
//   - Func: runs a caller supplied handler
//
// Agents are not safe for concurrent use on their own. Wrapping one in a
// Parallel moves all of its Reset, Callback and Close calls onto one worker
// goroutine fed by a bounded mailbox:
//
//	reg := topic.NewRegistry()
//	sum := agent.NewParallel(agent.NewBinOp(reg, "PlusAgent", "A", "B", "C", agent.Add), 10)
//	defer sum.Close()
//
// Factories map descriptor type names to constructors. Global holds the
// built-in types and is what Register and Lookup operate on.
package agent
