package distributor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arcadefleet/hub/internal/logger"
)

// clientAPKFilename is the cached client installer's filename on disk,
// named after the client's historical codename (spec.md §4.6.2).
const clientAPKFilename = "Snorlax.apk"

// SelfUpdater runs the client-software self-update flow (spec.md §4.6.2):
// same shape as game sync, but a single artifact instead of a manifest.
type SelfUpdater struct {
	hub      *HubClient
	cacheDir string
}

// NewSelfUpdater builds a SelfUpdater against hub, caching the APK and its
// metadata under cacheDir.
func NewSelfUpdater(hub *HubClient, cacheDir string) *SelfUpdater {
	return &SelfUpdater{hub: hub, cacheDir: cacheDir}
}

// UpdateResult reports what CheckAndUpdate did.
type UpdateResult struct {
	Updated    bool
	FromVersion string
	ToVersion   string
}

// CheckAndUpdate fetches the latest published client release, compares it
// against the locally cached version (missing cache treated as "0.0.0"),
// and downloads + caches the new APK if the remote version is newer.
func (u *SelfUpdater) CheckAndUpdate(ctx context.Context) (UpdateResult, error) {
	release, err := u.hub.LatestClientRelease(ctx)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("distributor: latest client release: %w", err)
	}

	cached, err := readClientMetadata(u.cacheDir)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("distributor: read client metadata: %w", err)
	}

	if compareSemver(release.Version, cached.Version) <= 0 {
		return UpdateResult{Updated: false, FromVersion: cached.Version, ToVersion: cached.Version}, nil
	}

	data, err := FetchArtifact(ctx, release.DownloadURL)
	if err != nil {
		return UpdateResult{}, &DownloadFailedError{File: clientAPKFilename, Reason: err}
	}

	apkPath := filepath.Join(u.cacheDir, clientAPKFilename)
	if err := writeFileAtomic(apkPath, data); err != nil {
		return UpdateResult{}, &DownloadFailedError{File: clientAPKFilename, Reason: err}
	}

	if err := writeClientMetadata(u.cacheDir, ClientMetadata{Version: release.Version}); err != nil {
		return UpdateResult{}, fmt.Errorf("distributor: write client metadata: %w", err)
	}

	logger.Info("client self-update installed", "from_version", cached.Version, "to_version", release.Version)
	return UpdateResult{Updated: true, FromVersion: cached.Version, ToVersion: release.Version}, nil
}
