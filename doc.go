/*
Package plexus builds reactive computation graphs out of named topics and
small agents.

Topics are broadcast channels addressed by name. Agents subscribe to topics,
react to every message and publish results on other topics. No agent holds a
reference to another, so a graph is wired entirely by topic names.

# Basic Usage

A graph is loaded from descriptors, one per agent:

	g := plexus.New()
	defer g.Close()

	err := g.Load([]descriptor.Descriptor{
		{Type: "PlusAgent", Subscriptions: []string{"A", "B"}, Publications: []string{"C"}},
		{Type: "IncAgent", Subscriptions: []string{"C"}, Publications: []string{"D"}},
	})

	g.Publish("A", messages.New("3"))
	g.Publish("B", messages.New("4"))
	// D receives 8

Descriptors can also be read from a file with LoadFile, in the line format or as
JSON (see the descriptor package).

# Architecture

  - messages: the immutable Message with text, byte and numeric views
  - topic: topics and the Registry that owns them
  - agent: the Agent capability, built-in agents, factories and the Parallel worker
  - descriptor: descriptor parsing and the JSON Schema of the JSON format

Every agent a Graph builds runs behind an agent.Parallel: publishing enqueues
into the agent's bounded mailbox and returns, and the agent processes its
messages one at a time on its own goroutine. A full mailbox blocks the
publisher, which bounds the work in flight per agent.

# Generations

Each Load or LoadFile starts a new generation. Every agent of the previous
generation is closed, and its worker has exited, before the first agent of
the new generation is constructed. Descriptors that fail to resolve or
construct are logged and skipped; the remaining ones are still built.

# Thread Safety

Graph and topic.Registry are safe for concurrent use. Publishing from several
goroutines is safe; delivery order per subscriber is only guaranteed for
messages published sequentially on one topic.
*/
package plexus
