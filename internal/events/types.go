package events

import (
	"time"

	"github.com/muurk/lightctl/internal/field"
)

// Event type constants for kelindar/event.
const (
	TypeStatus uint32 = iota + 1
	TypeFieldChanged
	TypeLiveConnection
	TypePatternOrderChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StatusLevel tells the panel how to style a status line.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

// StatusEvent replaces the panel's status line.
type StatusEvent struct {
	Text      string
	Level     StatusLevel
	Timestamp time.Time
}

// Type returns the event type identifier for StatusEvent.
func (e StatusEvent) Type() uint32 { return TypeStatus }

// Source says who changed a field.
type Source string

const (
	SourceUser   Source = "user"
	SourceDevice Source = "device"
)

// FieldChangedEvent carries a new value for a controller field. Device
// sourced events must be applied to the view without being sent back.
type FieldChangedEvent struct {
	Name   string
	Value  field.Value
	Source Source
}

// Type returns the event type identifier for FieldChangedEvent.
func (e FieldChangedEvent) Type() uint32 { return TypeFieldChanged }

// LiveConnectionEvent reports websocket connection state changes.
type LiveConnectionEvent struct {
	Connected bool
	URL       string
	Err       error
}

// Type returns the event type identifier for LiveConnectionEvent.
func (e LiveConnectionEvent) Type() uint32 { return TypeLiveConnection }

// PatternOrderChangedEvent is published when the config file's pattern
// order is edited while the panel is open.
type PatternOrderChangedEvent struct {
	Order []string
}

// Type returns the event type identifier for PatternOrderChangedEvent.
func (e PatternOrderChangedEvent) Type() uint32 { return TypePatternOrderChanged }
