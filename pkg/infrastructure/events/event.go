// Package events records what the explosion service did as append-only
// event streams keyed by product code.
package events

import (
	"slices"
	"time"
)

// Event is one entry of a stream. Version is its 1-based position in the
// stream and is assigned by the store on append.
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// HandlerFunc adapts a function into an EventHandler for the given event types
type HandlerFunc struct {
	Types []string
	Fn    func(Event) error
}

func (h *HandlerFunc) Handle(event Event) error {
	return h.Fn(event)
}

func (h *HandlerFunc) CanHandle(eventType string) bool {
	return slices.Contains(h.Types, eventType)
}

type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// record is the Event implementation used by every constructor in this package
type record struct {
	kind    string
	stream  string
	payload interface{}
	at      time.Time
	version int
}

func (r record) Type() string         { return r.kind }
func (r record) StreamID() string     { return r.stream }
func (r record) Data() interface{}    { return r.payload }
func (r record) Timestamp() time.Time { return r.at }
func (r record) Version() int         { return r.version }

// NewEvent creates an unversioned event stamped with the current UTC time
func NewEvent(eventType, streamID string, data interface{}) Event {
	return record{
		kind:    eventType,
		stream:  streamID,
		payload: data,
		at:      time.Now().UTC(),
	}
}

// placed copies event into streamID at the given version
func placed(event Event, streamID string, version int) record {
	return record{
		kind:    event.Type(),
		stream:  streamID,
		payload: event.Data(),
		at:      event.Timestamp(),
		version: version,
	}
}
