package topic

import "fmt"

// DeliveryError is reported when a subscriber returned an error or panicked
// while handling a published message.
type DeliveryError struct {
	Topic      string
	Subscriber string
	Panicked   bool
	Cause      error
}

func (e *DeliveryError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("topic %q: subscriber %q panicked: %v", e.Topic, e.Subscriber, e.Cause)
	}
	return fmt.Sprintf("topic %q: subscriber %q failed: %v", e.Topic, e.Subscriber, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// InvariantError signals that the registry handed out a topic under the wrong
// name, or one that is not the topic it stores for that name. It is raised as
// a panic.
type InvariantError struct {
	Requested string
	Found     string
	Detached  bool
}

func (e *InvariantError) Error() string {
	if e.Detached {
		return fmt.Sprintf("topic registry invariant violated: topic %q is not the registered instance", e.Requested)
	}
	return fmt.Sprintf("topic registry invariant violated: requested %q, found %q", e.Requested, e.Found)
}
