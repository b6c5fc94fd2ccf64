// Package memory provides an in-memory artifactstore.Store for tests and
// local-dev mode: a mutex-guarded map standing in for a real backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arcadefleet/hub/pkg/artifactstore"
)

type key struct {
	gameID, versionID string
}

// Store is an in-memory artifactstore.Store. Signed URLs are not actually
// signed — they are a deterministic local path a local-dev HTTP server can
// serve directly — since there is no object store to presign against.
type Store struct {
	mu        sync.RWMutex
	manifests map[key]*artifactstore.GameManifest
	baseURL   string
}

// New returns an empty Store. baseURL prefixes every SignedURL result, e.g.
// "http://localhost:8081/artifacts".
func New(baseURL string) *Store {
	return &Store{manifests: make(map[key]*artifactstore.GameManifest), baseURL: baseURL}
}

// Put registers a manifest for gameID/versionID, overwriting any existing
// entry. Tests and the local-dev CLI seed the store this way.
func (s *Store) Put(gameID, versionID string, manifest *artifactstore.GameManifest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[key{gameID, versionID}] = manifest
}

func (s *Store) Manifest(_ context.Context, gameID, versionID string) (*artifactstore.GameManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.manifests[key{gameID, versionID}]
	if !ok {
		return nil, artifactstore.ErrNotFound
	}
	return m, nil
}

func (s *Store) SignedURL(_ context.Context, gameID, versionID, path string, ttl time.Duration) (string, error) {
	expires := time.Now().Add(ttl).Unix()
	return fmt.Sprintf("%s/%s/%s/%s?expires=%d", s.baseURL, gameID, versionID, path, expires), nil
}

// ListVersions returns the version ids registered for gameID, sorted for
// deterministic test assertions.
func (s *Store) ListVersions(gameID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for k := range s.manifests {
		if k.gameID == gameID {
			out = append(out, k.versionID)
		}
	}
	sort.Strings(out)
	return out
}
