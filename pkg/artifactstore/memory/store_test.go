package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadefleet/hub/pkg/artifactstore"
)

func TestManifestRoundTrip(t *testing.T) {
	s := New("http://localhost:8081/artifacts")
	m := &artifactstore.GameManifest{Version: "1.0.0", Files: map[string]artifactstore.ManifestFile{
		"a.bin": {Hash: "h1", Size: 10},
	}}
	s.Put("g1", "v1", m)

	got, err := s.Manifest(t.Context(), "g1", "v1")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestManifestMissingReturnsErrNotFound(t *testing.T) {
	s := New("http://localhost:8081/artifacts")
	_, err := s.Manifest(t.Context(), "missing", "v1")
	assert.ErrorIs(t, err, artifactstore.ErrNotFound)
}

func TestSignedURLIncludesExpiry(t *testing.T) {
	s := New("http://localhost:8081/artifacts")
	url, err := s.SignedURL(t.Context(), "g1", "v1", "a.bin", 30*time.Second)
	require.NoError(t, err)
	assert.Contains(t, url, "g1/v1/a.bin")
	assert.Contains(t, url, "expires=")
}

func TestListVersionsSortedAndScopedToGame(t *testing.T) {
	s := New("http://localhost:8081/artifacts")
	s.Put("g1", "v2", &artifactstore.GameManifest{})
	s.Put("g1", "v1", &artifactstore.GameManifest{})
	s.Put("g2", "v9", &artifactstore.GameManifest{})

	assert.Equal(t, []string{"v1", "v2"}, s.ListVersions("g1"))
}
