// Package topic implements the named broadcast channels that connect agents in
// a plexus graph.
//
// Design decisions:
//   - Name-addressed: agents never hold references to each other, only to topics
//   - Lazy: a Registry creates a Topic the first time its name is requested
//   - Synchronous fan-out: Publish calls every subscriber on the caller's goroutine
//   - Snapshot delivery: subscribers added during a publish see only later publishes
//   - Fault isolation: a failing or panicking subscriber never stops the fan-out
//
// Types:
//   - Registry: owns the name to Topic map
//     └── Topic: subscriber and publisher bookkeeping plus the last message
//     └── Subscriber: anything that can receive a Callback
//
// Example usage:
//
//	reg := topic.NewRegistry()
//	sum := reg.Get("sum")
//	sum.Subscribe(printer)
//
//	if err := sum.Publish(messages.FromFloat(7)); err != nil {
//	    // every subscriber was still called, err lists the ones that failed
//	}
//
// Subscribers are compared by identity, so they must be comparable values
// (usually pointers). Slow subscribers slow the publisher down: wrap them in an
// agent.Parallel to move their work onto a dedicated worker.
package topic
