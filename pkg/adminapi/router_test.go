package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadefleet/hub/pkg/command"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/registry"
)

const testToken = "operator-secret"

func newTestServer(t *testing.T) (*httptest.Server, *devicereg.Registry) {
	t.Helper()
	devices := devicereg.New()
	sessions := registry.New()
	executor := command.New(devices, sessions)

	srv := httptest.NewServer(NewRouter(devices, executor, testToken))
	t.Cleanup(srv.Close)
	return srv, devices
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestListDevicesRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/admin/devices")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthIsUnauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDevicesReturnsRegisteredDevices(t *testing.T) {
	srv, devices := newTestServer(t)
	id := device.NewID()
	devices.Put(device.NewProvisional(id, "10.0.0.5:1234", time.Now()))

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/devices", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []DeviceView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, id.String(), got[0].ID)
}

func TestLaunchFansOutToEveryDeviceWhenNoIDsGiven(t *testing.T) {
	srv, devices := newTestServer(t)
	devices.Put(device.NewProvisional(device.NewID(), "10.0.0.5:1234", time.Now()))
	devices.Put(device.NewProvisional(device.NewID(), "10.0.0.6:1234", time.Now()))

	resp := postJSON(t, srv.URL+"/api/admin/commands/launch", testToken, map[string]any{
		"package": "com.studio.beatsaber",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got BatchResultView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	// No sessions are registered for these devices, so every fan-out target
	// fails to send but is still accounted for.
	assert.Equal(t, 2, len(got.Succeeded)+len(got.Failed))
}

func TestLaunchRejectsInvalidPackage(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/admin/commands/launch", testToken, map[string]any{
		"package": "not-a-package",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
