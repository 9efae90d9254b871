package topic

import (
	"github.com/casualjim/plexus/messages"
	"github.com/goccy/go-json"
)

// Info is a read-only view of a topic.
type Info struct {
	Name        string           `json:"name"`
	Subscribers []string         `json:"subscribers"`
	Publishers  []string         `json:"publishers"`
	LastMessage messages.Message `json:"last_message"`
}

func (i Info) String() string {
	b, err := json.Marshal(i)
	if err != nil {
		return i.Name
	}
	return string(b)
}
