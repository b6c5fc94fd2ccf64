package distributor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/internal/telemetry"
	"github.com/arcadefleet/hub/pkg/metrics"
)

// Distributor runs the game-sync flow against one hub and one local games
// root.
type Distributor struct {
	hub       *HubClient
	gamesRoot string
	progress  *ProgressTracker
	metrics   metrics.DistributorMetrics
}

// NewDistributor builds a Distributor against hub, rooted at gamesRoot
// (e.g. "C:/Combatica").
func NewDistributor(hub *HubClient, gamesRoot string) *Distributor {
	return &Distributor{hub: hub, gamesRoot: gamesRoot, progress: NewProgressTracker(), metrics: metrics.NewDistributorMetrics()}
}

// Progress exposes the tracker so a UI-facing poller can read it directly.
func (d *Distributor) Progress() *ProgressTracker { return d.progress }

// Status computes GameStatus for every assignment the hub reports, by
// comparing each against the locally installed game_metadata.json.
func (d *Distributor) Status(ctx context.Context) ([]GameStatus, error) {
	assignments, err := d.hub.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("distributor: list assignments: %w", err)
	}

	statuses := make([]GameStatus, 0, len(assignments))
	for _, a := range assignments {
		local, err := readGameMetadata(d.gamesRoot, a.GameName)
		if err != nil {
			return nil, fmt.Errorf("distributor: read metadata for %s: %w", a.GameName, err)
		}

		st := GameStatus{GameID: a.GameID, GameName: a.GameName, AssignedVersion: a.AssignedVersion}
		if local == nil {
			st.UpdateAvailable = true
		} else {
			st.InstalledVersion = local.InstalledVersion
			st.UpdateAvailable = local.InstalledVersionID != a.AssignedVersion.VersionID
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Install runs the full install/update flow for one game id. onProgress,
// if non-nil, is called once before each file download and once after,
// with the (index, total, path) of the file in progress.
func (d *Distributor) Install(ctx context.Context, gameID string, onProgress func(index, total int, path string)) error {
	ctx, span := telemetry.StartSyncSpan(ctx, "distributor.install", gameID)
	defer span.End()

	resp, err := d.hub.DownloadInfo(ctx, gameID)
	if err != nil {
		return fmt.Errorf("distributor: download info for %s: %w", gameID, err)
	}

	gameDir := filepath.Join(d.gamesRoot, resp.GameName)
	if err := os.MkdirAll(gameDir, 0o755); err != nil {
		return fmt.Errorf("distributor: create game dir: %w", err)
	}

	manifestPaths := make(map[string]struct{}, len(resp.Files))
	for _, f := range resp.Files {
		manifestPaths[normalizePath(f.Path)] = struct{}{}
	}

	localPaths, err := enumerateLocalFiles(gameDir)
	if err != nil {
		return fmt.Errorf("distributor: enumerate local files: %w", err)
	}

	for _, rel := range localPaths {
		if _, wanted := manifestPaths[rel]; wanted {
			continue
		}
		full := filepath.Join(gameDir, filepath.FromSlash(rel))
		if err := os.Remove(full); err != nil {
			logger.Warn("failed to remove obsolete game file",
				logger.GameID(gameID), logger.FilePath(rel), logger.Err(err))
		}
	}

	total := len(resp.Files)
	d.progress.Start(gameID, total)

	for i, f := range resp.Files {
		target := filepath.Join(gameDir, filepath.FromSlash(f.Path))

		if _, statErr := os.Stat(target); statErr == nil {
			// An existing path is treated as up to date and skipped: this
			// diff is path-existence only, not content-hash verified.
			d.progress.Update(gameID, i+1, total, f.Path)
			continue
		}

		if onProgress != nil {
			onProgress(i, total, f.Path)
		}

		downloadStart := time.Now()
		data, err := FetchArtifact(ctx, f.DownloadURL)
		if err != nil {
			d.progress.Cancel(gameID)
			metrics.ObserveInstallOutcome(d.metrics, gameID, "failed")
			return &DownloadFailedError{File: f.Path, Reason: err}
		}
		metrics.ObserveFileDownload(d.metrics, gameID, int64(len(data)), time.Since(downloadStart))

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			d.progress.Cancel(gameID)
			return &DownloadFailedError{File: f.Path, Reason: err}
		}
		if err := writeFileAtomic(target, data); err != nil {
			d.progress.Cancel(gameID)
			return &DownloadFailedError{File: f.Path, Reason: err}
		}

		d.progress.Update(gameID, i+1, total, f.Path)
		if onProgress != nil {
			onProgress(i+1, total, f.Path)
		}
	}

	meta := LocalGameMetadata{
		GameID:             resp.GameID,
		GameName:           resp.GameName,
		InstalledVersion:   resp.Version,
		InstalledVersionID: resp.VersionID,
		InstalledAt:        time.Now(),
	}
	if err := writeGameMetadata(d.gamesRoot, resp.GameName, meta); err != nil {
		return fmt.Errorf("distributor: write game metadata: %w", err)
	}

	d.progress.Complete(gameID)
	metrics.ObserveInstallOutcome(d.metrics, gameID, "installed")

	if err := d.hub.ReportStatus(ctx, gameID, resp.VersionID); err != nil {
		return fmt.Errorf("distributor: report status: %w", err)
	}
	return nil
}

// enumerateLocalFiles walks gameDir recursively and returns POSIX-normalized
// relative paths, excluding game_metadata.json.
func enumerateLocalFiles(gameDir string) ([]string, error) {
	var out []string
	err := filepath.Walk(gameDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(gameDir, path)
		if err != nil {
			return err
		}
		rel = normalizePath(rel)
		if rel == gameMetadataFilename {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// normalizePath converts a filesystem-native relative path to the
// POSIX-normalized form the manifest uses (backslashes to forward slashes
// on Windows).
func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
