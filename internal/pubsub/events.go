// Package pubsub carries events into the Bubble Tea loop. Broker streams
// values such as log records to asynchronous listeners; Signal notifies input
// listeners synchronously.
package pubsub

import "time"

// EventType identifies what happened to the payload.
type EventType string

// AppendedEvent marks a payload added to a stream.
const AppendedEvent EventType = "appended"

// Event is a published value stamped with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
