// Package registry provides the session registry (C3): the only
// domain-visible interface onto live device sessions. Packet handlers and
// the command executor depend on this package; they never hold a concrete
// socket or *session.Session directly.
package registry

import (
	"sync"

	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/session"
)

// Metadata is the auxiliary, per-session state populated after a device's
// first protocol-level hello.
type Metadata struct {
	ClientVersion string
}

// Registry maps DeviceId to a live Session, plus a parallel map of
// per-session Metadata. All operations are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[device.ID]*session.Session
	meta     map[device.ID]*Metadata
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[device.ID]*session.Session),
		meta:     make(map[device.ID]*Metadata),
	}
}

// Add inserts a session and initializes empty metadata for it. Calling Add
// twice for the same id is a caller bug — DeviceId is minted fresh per
// accept, so this should never happen in practice — and the second call
// silently overwrites the first.
func (r *Registry) Add(id device.ID, sess *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = sess
	r.meta[id] = &Metadata{}
}

// Remove deletes the session and its metadata. The caller is responsible for
// closing the session; removing it from the registry is what makes it
// unreachable for further sends.
func (r *Registry) Remove(id device.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	delete(r.meta, id)
}

// Get returns the session for id, or (nil, false) if absent.
func (r *Registry) Get(id device.ID) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Has reports whether id has a live session.
func (r *Registry) Has(id device.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// SetClientVersion records the client software version reported by a
// device's hello. A no-op if the device has no registry entry.
func (r *Registry) SetClientVersion(id device.ID, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meta[id]; ok {
		m.ClientVersion = version
	}
}

// GetClientVersion returns the last recorded client version, or "" if the
// device has never sent one (or has no registry entry).
func (r *Registry) GetClientVersion(id device.ID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.meta[id]; ok {
		return m.ClientVersion
	}
	return ""
}

// SendPacket is the abstract contract the command executor depends on: it
// never touches a socket directly, only this registry. Returns
// device.NewDeviceDisconnectedError if id has no live session.
func (r *Registry) SendPacket(id device.ID, opcode byte, payload []byte) error {
	sess, ok := r.Get(id)
	if !ok {
		return device.NewDeviceDisconnectedError(id.String())
	}
	return sess.Send(opcode, payload)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
