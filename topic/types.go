package topic

import "github.com/casualjim/plexus/messages"

// Named is anything that can be listed as a topic member.
type Named interface {
	Name() string
}

// Subscriber receives every message published on the topics it subscribed to.
// Callback runs on the publisher's goroutine and may publish reentrantly.
type Subscriber interface {
	Named
	Callback(topic string, msg messages.Message) error
}
