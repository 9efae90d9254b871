package plexus

import (
	"log/slog"
	"time"

	"github.com/casualjim/plexus/agent"
	"github.com/casualjim/plexus/topic"
	"github.com/fogfish/opts"
)

// DefaultMailboxCapacity is the mailbox size of every agent a Graph builds
// unless MailboxCapacity says otherwise.
const DefaultMailboxCapacity = 10

var (
	// WithRegistry sets the topic registry agents are wired into. A graph
	// creates its own registry by default.
	WithRegistry = opts.ForName[Graph, *topic.Registry]("registry")

	// WithFactories sets the agent types a graph can build. Defaults to
	// agent.Global.
	WithFactories = opts.ForName[Graph, *agent.Factories]("factories")

	// MailboxCapacity sets the mailbox size of each agent.
	MailboxCapacity = opts.ForName[Graph, int]("mailboxCapacity")

	// ShutdownTimeout bounds how long closing one agent may take.
	ShutdownTimeout = opts.ForName[Graph, time.Duration]("shutdownTimeout")

	WithLogger = opts.ForName[Graph, *slog.Logger]("logger")
)
