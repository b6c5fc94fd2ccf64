// Package events is the in-process domain event bus that connects packet
// handlers (C4) to UI-facing consumers. It is a plain buffered channel, not
// a message broker: events are process-local and best-effort.
package events

import (
	"time"

	"github.com/arcadefleet/hub/pkg/device"
	"github.com/google/uuid"
)

// Kind identifies the shape of an Event's payload.
type Kind int

const (
	KindDeviceConnected Kind = iota
	KindDeviceUpdated
	KindDeviceDisconnected
	KindBatteryUpdated
	KindVolumeUpdated
	KindCommandResult
	KindDownloadProgress
	KindInstallProgress
)

// Event is the envelope emitted by packet handlers and consumed by whatever
// surface renders live device state (dashboard, CLI watch, tests).
type Event struct {
	Kind      Kind
	DeviceID  device.ID
	Serial    device.Serial
	At        time.Time
	Device    device.Device // snapshot at emission time; zero value if not applicable
	Opcode    byte          // set for KindCommandResult
	Success   bool          // set for KindCommandResult
	Message   string        // set for KindCommandResult
	OperationID uuid.UUID   // set for KindDownloadProgress/KindInstallProgress
	Stage     byte
	Percent   float32
}

// busCapacity bounds how many events can queue before Emit starts dropping.
// A slow or absent consumer must never block a packet-dispatch goroutine.
const busCapacity = 256

// Bus fans out events to zero or more subscribers. The zero value is not
// usable; call NewBus.
type Bus struct {
	subs chan chan Event
	sub  []chan Event
	in   chan Event
	done chan struct{}
}

// NewBus starts the bus's internal fan-out goroutine and returns a handle.
func NewBus() *Bus {
	b := &Bus{
		subs: make(chan chan Event),
		in:   make(chan Event, busCapacity),
		done: make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	for {
		select {
		case ev := <-b.in:
			for _, s := range b.sub {
				select {
				case s <- ev:
				default: // slow subscriber: drop rather than block the bus
				}
			}
		case ch := <-b.subs:
			b.sub = append(b.sub, ch)
		case <-b.done:
			return
		}
	}
}

// Subscribe returns a channel that receives every event emitted after the
// call. The channel is never closed by the bus; callers select on their own
// cancellation alongside it.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	b.subs <- ch
	return ch
}

// Emit publishes an event to all current subscribers. Never blocks: if the
// bus's internal queue is full, the event is dropped.
func (b *Bus) Emit(ev Event) {
	select {
	case b.in <- ev:
	default:
	}
}

// Close stops the bus's fan-out goroutine. Not safe to call Emit afterward.
func (b *Bus) Close() {
	close(b.done)
}
