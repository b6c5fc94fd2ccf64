package distributor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// signedURLTimeout bounds every hub REST call the distributor makes (spec.md
// §5 "Signed-URL hub requests: 30s").
const signedURLTimeout = 30 * time.Second

// downloadTimeout bounds a single artifact GET against a pre-signed URL
// (spec.md §5 "Artifact downloads: 1h per file").
const downloadTimeout = time.Hour

// HubClient is the distributor's view of the hub's HTTP surface (spec.md
// §4.6.1, §6). It authenticates with a stable client identity header rather
// than the operator bearer token pkg/apiclient uses, since this traffic
// originates from an unattended agent, not an operator CLI.
type HubClient struct {
	baseURL    string
	macAddress string
	machineID  string
	http       *http.Client
}

// NewHubClient builds a distributor client against baseURL, identified to
// the hub by macAddress (game sync) and machineID (self-update).
func NewHubClient(baseURL, macAddress, machineID string) *HubClient {
	return &HubClient{
		baseURL:    baseURL,
		macAddress: macAddress,
		machineID:  machineID,
		http:       &http.Client{Timeout: signedURLTimeout},
	}
}

func (c *HubClient) request(ctx context.Context, method, path string, body, result any, timeout time.Duration) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("distributor: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("distributor: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.macAddress != "" {
		req.Header.Set("X-MAC-Address", c.macAddress)
	}
	if c.machineID != "" {
		req.Header.Set("X-Machine-ID", c.machineID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("distributor: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("distributor: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("distributor: %s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("distributor: decode response: %w", err)
		}
	}
	return nil
}

// ListAssignments fetches the set of games assigned to this client
// (GET /api/arcade/games).
func (c *HubClient) ListAssignments(ctx context.Context) ([]GameAssignment, error) {
	var assignments []GameAssignment
	if err := c.request(ctx, http.MethodGet, "/api/arcade/games", nil, &assignments, signedURLTimeout); err != nil {
		return nil, err
	}
	return assignments, nil
}

// DownloadInfo fetches the signed file manifest for one game
// (GET /api/arcade/games/{gameID}/download).
func (c *HubClient) DownloadInfo(ctx context.Context, gameID string) (*GameDownloadResponse, error) {
	var resp GameDownloadResponse
	path := fmt.Sprintf("/api/arcade/games/%s/download", gameID)
	if err := c.request(ctx, http.MethodGet, path, nil, &resp, signedURLTimeout); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportStatus tells the hub what is now installed for a game
// (POST /api/arcade/games/{gameID}/status).
func (c *HubClient) ReportStatus(ctx context.Context, gameID, currentVersionID string) error {
	path := fmt.Sprintf("/api/arcade/games/%s/status", gameID)
	return c.request(ctx, http.MethodPost, path, StatusReport{CurrentVersionID: currentVersionID}, nil, signedURLTimeout)
}

// LatestClientRelease fetches the latest published client build
// (GET /api/arcade/snorlax/latest).
func (c *HubClient) LatestClientRelease(ctx context.Context) (*ClientRelease, error) {
	var release ClientRelease
	if err := c.request(ctx, http.MethodGet, "/api/arcade/snorlax/latest", nil, &release, signedURLTimeout); err != nil {
		return nil, err
	}
	return &release, nil
}

// FetchArtifact fetches the raw bytes at a pre-signed download URL. This
// bypasses the hub's JSON envelope entirely — the URL points at the object
// store directly — so it uses its own long-timeout client rather than
// HubClient.request.
func FetchArtifact(ctx context.Context, downloadURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("distributor: build download request: %w", err)
	}

	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distributor: download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("distributor: download: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
