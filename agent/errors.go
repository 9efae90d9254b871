package agent

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned when a message is offered to a closed Parallel.
var ErrClosed = errors.New("agent closed")

// UnknownAgentTypeError is returned when no factory is registered for a type.
type UnknownAgentTypeError struct {
	Type string
}

func (e *UnknownAgentTypeError) Error() string {
	return fmt.Sprintf("unknown agent type %q", e.Type)
}

// ConstructionError is returned when a factory failed to build its agent.
type ConstructionError struct {
	Type  string
	Cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct agent %q: %v", e.Type, e.Cause)
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// MailboxFullError is returned by Parallel.Offer when the mailbox stayed full
// until the context ended.
type MailboxFullError struct {
	Agent    string
	Capacity int
	Cause    error
}

func (e *MailboxFullError) Error() string {
	return fmt.Sprintf("agent %q: mailbox full (capacity %d): %v", e.Agent, e.Capacity, e.Cause)
}

func (e *MailboxFullError) Unwrap() error {
	return e.Cause
}

// ShutdownTimeoutError is returned by Parallel.Close when the worker did not
// terminate within the shutdown window.
type ShutdownTimeoutError struct {
	Agent   string
	Timeout time.Duration
}

func (e *ShutdownTimeoutError) Error() string {
	return fmt.Sprintf("agent %q: worker did not stop within %s", e.Agent, e.Timeout)
}
