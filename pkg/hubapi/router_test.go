package hubapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadefleet/hub/pkg/artifactstore"
	"github.com/arcadefleet/hub/pkg/artifactstore/memory"
	"github.com/arcadefleet/hub/pkg/distributor"
	"github.com/arcadefleet/hub/pkg/hubapi/devicetoken"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func newTestServer(t *testing.T) (*httptest.Server, *AssignmentStore, string) {
	t.Helper()
	assignments := NewAssignmentStore()
	artifacts := memory.New("http://localhost/artifacts")
	tokens, err := devicetoken.New(devicetoken.Config{Secret: testSecret})
	require.NoError(t, err)

	token, _, err := tokens.Issue(devicetoken.Identity{MACAddress: "aa:bb:cc"})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(assignments, artifacts, tokens))
	t.Cleanup(srv.Close)
	return srv, assignments, token
}

func authedGet(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestListGamesRequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/arcade/games")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListGamesReturnsAssignments(t *testing.T) {
	srv, assignments, token := newTestServer(t)
	assignments.SetAssignments("aa:bb:cc", []distributor.GameAssignment{
		{GameID: "g1", GameName: "combatica", AssignedVersion: distributor.VersionInfo{VersionID: "v1", Version: "1.0"}},
	})

	resp := authedGet(t, srv.URL+"/api/arcade/games", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []distributor.GameAssignment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].GameID)
}

func TestDownloadGameSignsEveryManifestFile(t *testing.T) {
	srv, assignments, token := newTestServer(t)
	assignments.SetAssignments("aa:bb:cc", []distributor.GameAssignment{
		{GameID: "g1", GameName: "combatica", AssignedVersion: distributor.VersionInfo{VersionID: "v1", Version: "1.0"}},
	})

	store := memory.New("http://localhost/artifacts")
	store.Put("g1", "v1", &artifactstore.GameManifest{Version: "1.0", Files: map[string]artifactstore.ManifestFile{
		"a.bin": {Hash: "h1", Size: 10},
		"b.bin": {Hash: "h2", Size: 20},
	}})
	srv2 := httptest.NewServer(NewRouter(assignments, store, mustTokenService(t)))
	defer srv2.Close()

	resp := authedGet(t, srv2.URL+"/api/arcade/games/g1/download", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got distributor.GameDownloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "combatica", got.GameName)
	assert.Len(t, got.Files, 2)
}

func TestDownloadGameNotAssignedReturns404(t *testing.T) {
	srv, _, token := newTestServer(t)
	resp := authedGet(t, srv.URL+"/api/arcade/games/unknown/download", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportStatusRecordsVersion(t *testing.T) {
	srv, assignments, token := newTestServer(t)
	body, _ := json.Marshal(distributor.StatusReport{CurrentVersionID: "v1"})

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/arcade/games/g1/status", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, ok := assignments.ReportedVersion("aa:bb:cc", "g1")
	require.True(t, ok)
	assert.Equal(t, "v1", got)
}

func TestLatestClientReleaseNotPublished(t *testing.T) {
	srv, _, token := newTestServer(t)
	resp := authedGet(t, srv.URL+"/api/arcade/snorlax/latest", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLatestClientReleasePublished(t *testing.T) {
	srv, assignments, token := newTestServer(t)
	assignments.SetClientRelease(distributor.ClientRelease{DownloadURL: "http://x/snorlax.apk", Version: "2.0.0"})

	resp := authedGet(t, srv.URL+"/api/arcade/snorlax/latest", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got distributor.ClientRelease
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "2.0.0", got.Version)
}

func mustTokenService(t *testing.T) *devicetoken.Service {
	t.Helper()
	svc, err := devicetoken.New(devicetoken.Config{Secret: testSecret})
	require.NoError(t, err)
	return svc
}
