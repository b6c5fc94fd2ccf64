package hubapi

import (
	"sync"

	"github.com/arcadefleet/hub/pkg/distributor"
)

// AssignmentStore holds which game versions are assigned to which MAC
// addresses, and the current published client release. SPEC_FULL.md §4.7
// describes it as "a stub the real admin surface would populate" — the real
// REST admin surface that writes these assignments is out of scope, but its
// read contract with the distributor is not, so this store exists to make
// that contract concrete and testable.
type AssignmentStore struct {
	mu            sync.RWMutex
	byMAC         map[string][]distributor.GameAssignment
	reported      map[string]map[string]string // mac -> gameID -> current_version_id
	clientRelease *distributor.ClientRelease
}

// NewAssignmentStore returns an empty store.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{
		byMAC:    make(map[string][]distributor.GameAssignment),
		reported: make(map[string]map[string]string),
	}
}

// SetAssignments replaces the assignment list for one MAC address.
func (s *AssignmentStore) SetAssignments(mac string, assignments []distributor.GameAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byMAC[mac] = assignments
}

// Assignments returns the assignment list for mac, or nil if none is set.
func (s *AssignmentStore) Assignments(mac string) []distributor.GameAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byMAC[mac]
}

// Assignment returns the single assignment for mac/gameID, or false if the
// game is not assigned to that client.
func (s *AssignmentStore) Assignment(mac, gameID string) (distributor.GameAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.byMAC[mac] {
		if a.GameID == gameID {
			return a, true
		}
	}
	return distributor.GameAssignment{}, false
}

// RecordStatus stores the version id mac reports as currently installed for
// gameID.
func (s *AssignmentStore) RecordStatus(mac, gameID, versionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reported[mac] == nil {
		s.reported[mac] = make(map[string]string)
	}
	s.reported[mac][gameID] = versionID
}

// ReportedVersion returns the version id mac last reported for gameID.
func (s *AssignmentStore) ReportedVersion(mac, gameID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.reported[mac][gameID]
	return v, ok
}

// SetClientRelease sets the currently published client build.
func (s *AssignmentStore) SetClientRelease(release distributor.ClientRelease) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientRelease = &release
}

// ClientRelease returns the currently published client build, or false if
// none has been set.
func (s *AssignmentStore) ClientRelease() (distributor.ClientRelease, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clientRelease == nil {
		return distributor.ClientRelease{}, false
	}
	return *s.clientRelease, true
}
