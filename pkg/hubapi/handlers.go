package hubapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/artifactstore"
	"github.com/arcadefleet/hub/pkg/distributor"
	"github.com/arcadefleet/hub/pkg/hubapi/devicetoken"
)

// signedURLTTL is how long a signed download URL stays valid; it also sets
// the download response's expires_at.
const signedURLTTL = 15 * time.Minute

// Handlers implements the four hub HTTP endpoints the distributor depends
// on (SPEC_FULL.md §4.7).
type Handlers struct {
	assignments *AssignmentStore
	artifacts   artifactstore.Store
}

// NewHandlers builds Handlers against the given assignment store and
// artifact store.
func NewHandlers(assignments *AssignmentStore, artifacts artifactstore.Store) *Handlers {
	return &Handlers{assignments: assignments, artifacts: artifacts}
}

func (h *Handlers) identity(r *http.Request) devicetoken.Identity {
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		return claims.Identity()
	}
	return devicetoken.Identity{}
}

// ListGames handles GET /api/arcade/games.
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	mac := h.identity(r).MACAddress
	assignments := h.assignments.Assignments(mac)
	if assignments == nil {
		assignments = []distributor.GameAssignment{}
	}
	writeJSONOK(w, assignments)
}

// DownloadGame handles GET /api/arcade/games/{gameID}/download.
func (h *Handlers) DownloadGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	mac := h.identity(r).MACAddress

	assignment, ok := h.assignments.Assignment(mac, gameID)
	if !ok {
		notFound(w, "game not assigned to this client")
		return
	}

	manifest, err := h.artifacts.Manifest(r.Context(), gameID, assignment.AssignedVersion.VersionID)
	if err != nil {
		if errors.Is(err, artifactstore.ErrNotFound) {
			notFound(w, "manifest not found")
			return
		}
		logger.ErrorCtx(r.Context(), "failed to resolve manifest", logger.GameID(gameID), logger.Err(err))
		internalError(w, "failed to resolve manifest")
		return
	}

	resp := distributor.GameDownloadResponse{
		GameID:    gameID,
		GameName:  assignment.GameName,
		Version:   assignment.AssignedVersion.Version,
		VersionID: assignment.AssignedVersion.VersionID,
		ExpiresAt: time.Now().Add(signedURLTTL),
	}
	for path := range manifest.Files {
		url, err := h.artifacts.SignedURL(r.Context(), gameID, assignment.AssignedVersion.VersionID, path, signedURLTTL)
		if err != nil {
			logger.ErrorCtx(r.Context(), "failed to sign download url",
				logger.GameID(gameID), logger.FilePath(path), logger.Err(err))
			internalError(w, "failed to sign download url")
			return
		}
		resp.Files = append(resp.Files, distributor.DownloadFile{Path: path, DownloadURL: url})
	}

	writeJSONOK(w, resp)
}

// ReportStatus handles POST /api/arcade/games/{gameID}/status.
func (h *Handlers) ReportStatus(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	mac := h.identity(r).MACAddress

	var report distributor.StatusReport
	if !decodeJSONBody(w, r, &report) {
		return
	}
	if report.CurrentVersionID == "" {
		badRequest(w, "current_version_id is required")
		return
	}

	h.assignments.RecordStatus(mac, gameID, report.CurrentVersionID)
	logger.InfoCtx(r.Context(), "client reported game status",
		logger.GameID(gameID), logger.VersionID(report.CurrentVersionID))
	w.WriteHeader(http.StatusNoContent)
}

// LatestClientRelease handles GET /api/arcade/snorlax/latest.
func (h *Handlers) LatestClientRelease(w http.ResponseWriter, r *http.Request) {
	release, ok := h.assignments.ClientRelease()
	if !ok {
		notFound(w, "no client release published")
		return
	}
	writeJSONOK(w, release)
}
