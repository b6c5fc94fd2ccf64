// Package devicereg is the in-memory device registry: the authoritative
// record of every connected device for the lifetime of its session. Values
// are cloned on read and write so callers never observe (or corrupt) the
// registry's internal state through a shared pointer.
package devicereg

import (
	"sync"

	"github.com/arcadefleet/hub/pkg/device"
)

// Registry maps device.ID to a Device value. It holds only values, never
// shares a pointer with a Session, so it cannot form a reference cycle with
// the session registry.
type Registry struct {
	mu      sync.RWMutex
	devices map[device.ID]device.Device
}

// New returns an empty device registry.
func New() *Registry {
	return &Registry{devices: make(map[device.ID]device.Device)}
}

// Put inserts or overwrites the record for d.ID.
func (r *Registry) Put(d device.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[d.ID] = d
}

// Get returns a copy of the record for id, or (zero, false) if absent.
func (r *Registry) Get(id device.ID) (device.Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[id]
	return d, ok
}

// Remove deletes the record for id and returns the record that was removed,
// if any — callers use this to emit a DeviceDisconnected event carrying the
// device's last-known serial.
func (r *Registry) Remove(id device.ID) (device.Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	delete(r.devices, id)
	return d, ok
}

// Update applies fn to the current record for id and stores the result.
// Returns device.NewDeviceNotFoundError if id has no record. fn is called
// while holding the write lock, so it must not re-enter the registry.
func (r *Registry) Update(id device.ID, fn func(device.Device) (device.Device, error)) (device.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.devices[id]
	if !ok {
		return device.Device{}, device.NewDeviceNotFoundError(id.String())
	}
	updated, err := fn(current)
	if err != nil {
		return device.Device{}, err
	}
	r.devices[id] = updated
	return updated, nil
}

// List returns a snapshot of all current device records.
func (r *Registry) List() []device.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]device.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	return out
}

// Count returns the number of tracked devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
