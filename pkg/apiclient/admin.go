package apiclient

// Device mirrors adminapi.DeviceView: one row of hubctl's fleet table.
type Device struct {
	ID          string `json:"id"`
	Serial      string `json:"serial"`
	Model       string `json:"model"`
	IP          string `json:"ip"`
	CustomName  string `json:"custom_name,omitempty"`
	RunningApp  string `json:"running_app,omitempty"`
	ConnectedAt string `json:"connected_at"`
	LastSeen    string `json:"last_seen"`
	BatteryPct  *uint8 `json:"battery_pct,omitempty"`
	VolumePct   *uint8 `json:"volume_pct,omitempty"`
}

// FailedEntry mirrors adminapi.FailedEntryView.
type FailedEntry struct {
	DeviceID string `json:"device_id"`
	Error    string `json:"error"`
}

// BatchResult mirrors adminapi.BatchResultView.
type BatchResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []FailedEntry `json:"failed"`
}

// ListDevices fetches every device currently registered with the hub.
func (c *Client) ListDevices() ([]Device, error) {
	return listResources[Device](c, "/api/admin/devices")
}

type deviceIDsRequest struct {
	DeviceIDs []string `json:"device_ids,omitempty"`
}

// Launch fans a LAUNCH_APP command out to deviceIDs, or to every connected
// device when deviceIDs is empty.
func (c *Client) Launch(pkg string, deviceIDs []string) (*BatchResult, error) {
	req := struct {
		deviceIDsRequest
		Package string `json:"package"`
	}{deviceIDsRequest{deviceIDs}, pkg}
	return createResource[BatchResult](c, "/api/admin/commands/launch", req)
}

// SetVolume fans a SET_VOLUME command out to deviceIDs, or to every
// connected device when deviceIDs is empty.
func (c *Client) SetVolume(level uint8, deviceIDs []string) (*BatchResult, error) {
	req := struct {
		deviceIDsRequest
		Level uint8 `json:"level"`
	}{deviceIDsRequest{deviceIDs}, level}
	return createResource[BatchResult](c, "/api/admin/commands/volume", req)
}

// CloseAll fans a CLOSE_ALL_APPS command out to deviceIDs, or to every
// connected device when deviceIDs is empty.
func (c *Client) CloseAll(deviceIDs []string) (*BatchResult, error) {
	return createResource[BatchResult](c, "/api/admin/commands/close-all", deviceIDsRequest{deviceIDs})
}

// Shutdown fans a SHUTDOWN_RESTART command out to deviceIDs, or to every
// connected device when deviceIDs is empty.
func (c *Client) Shutdown(deviceIDs []string) (*BatchResult, error) {
	return createResource[BatchResult](c, "/api/admin/commands/shutdown", deviceIDsRequest{deviceIDs})
}
