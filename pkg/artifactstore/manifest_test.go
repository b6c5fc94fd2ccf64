package artifactstore

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffNewAndChangedFiles(t *testing.T) {
	old := &GameManifest{Files: map[string]ManifestFile{
		"a.bin": {Hash: "h1", Size: 10},
		"b.bin": {Hash: "h2", Size: 20},
	}}
	next := &GameManifest{Files: map[string]ManifestFile{
		"a.bin": {Hash: "h1", Size: 10}, // unchanged
		"b.bin": {Hash: "h2-new", Size: 25},
		"c.bin": {Hash: "h3", Size: 5},
	}}

	got := Diff(old, next)
	sort.Strings(got)
	assert.Equal(t, []string{"b.bin", "c.bin"}, got)
}

func TestDiffAgainstNilOldReturnsAllFiles(t *testing.T) {
	next := &GameManifest{Files: map[string]ManifestFile{"a.bin": {Hash: "h1"}}}
	got := Diff(nil, next)
	assert.Equal(t, []string{"a.bin"}, got)
}

func TestRemovedDetectsDroppedFiles(t *testing.T) {
	old := &GameManifest{Files: map[string]ManifestFile{
		"a.bin": {Hash: "h1"}, "old/x.bin": {Hash: "h2"}, "b.bin": {Hash: "h3"},
	}}
	next := &GameManifest{Files: map[string]ManifestFile{
		"a.bin": {Hash: "h1"}, "c.bin": {Hash: "h4"},
	}}

	got := Removed(old, next)
	sort.Strings(got)
	assert.Equal(t, []string{"b.bin", "old/x.bin"}, got)
}

func TestRemovedAgainstNilOldReturnsNothing(t *testing.T) {
	next := &GameManifest{Files: map[string]ManifestFile{"a.bin": {Hash: "h1"}}}
	assert.Empty(t, Removed(nil, next))
}
