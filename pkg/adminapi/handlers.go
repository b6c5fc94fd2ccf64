package adminapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/arcadefleet/hub/pkg/command"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
)

// Handlers implements the fleet-listing and command fan-out endpoints.
type Handlers struct {
	devices  *devicereg.Registry
	executor *command.Executor
}

// NewHandlers builds Handlers against live registries.
func NewHandlers(devices *devicereg.Registry, executor *command.Executor) *Handlers {
	return &Handlers{devices: devices, executor: executor}
}

// DeviceView is the wire shape of one fleet device for hubctl's table
// output.
type DeviceView struct {
	ID          string  `json:"id"`
	Serial      string  `json:"serial"`
	Model       string  `json:"model"`
	IP          string  `json:"ip"`
	CustomName  string  `json:"custom_name,omitempty"`
	RunningApp  string  `json:"running_app,omitempty"`
	ConnectedAt string  `json:"connected_at"`
	LastSeen    string  `json:"last_seen"`
	BatteryPct  *uint8  `json:"battery_pct,omitempty"`
	VolumePct   *uint8  `json:"volume_pct,omitempty"`
}

// BatchResultView is the wire shape of command.BatchResult.
type BatchResultView struct {
	Succeeded []string             `json:"succeeded"`
	Failed    []FailedEntryView    `json:"failed"`
}

// FailedEntryView is the wire shape of one command.FailedEntry.
type FailedEntryView struct {
	DeviceID string `json:"device_id"`
	Error    string `json:"error"`
}

type deviceIDsRequest struct {
	DeviceIDs []string `json:"device_ids"`
}

type launchRequest struct {
	deviceIDsRequest
	Package string `json:"package"`
}

type volumeRequest struct {
	deviceIDsRequest
	Level uint8 `json:"level"`
}

// ListDevices handles GET /api/admin/devices.
func (h *Handlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices := h.devices.List()
	out := make([]DeviceView, 0, len(devices))
	for _, d := range devices {
		out = append(out, toDeviceView(d))
	}
	writeJSONOK(w, out)
}

func toDeviceView(d device.Device) DeviceView {
	v := DeviceView{
		ID:          d.ID.String(),
		Serial:      d.Serial.String(),
		Model:       d.Model,
		IP:          d.IP,
		CustomName:  d.CustomName,
		RunningApp:  d.RunningApp.String(),
		ConnectedAt: d.ConnectedAt.Format(time.RFC3339),
		LastSeen:    d.LastSeen.Format(time.RFC3339),
	}
	if d.Battery != nil {
		level := d.Battery.Level
		v.BatteryPct = &level
	}
	if d.Volume != nil && d.Volume.Max > 0 {
		pct := uint8(uint32(d.Volume.Current) * 100 / uint32(d.Volume.Max))
		v.VolumePct = &pct
	}
	return v
}

// Launch handles POST /api/admin/commands/launch.
func (h *Handlers) Launch(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	pkg, err := device.ParsePackageName(req.Package)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	h.fanOut(w, r, req.DeviceIDs, command.LaunchApp{Package: pkg})
}

// SetVolume handles POST /api/admin/commands/volume.
func (h *Handlers) SetVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	h.fanOut(w, r, req.DeviceIDs, command.SetVolume{Level: req.Level})
}

// CloseAll handles POST /api/admin/commands/close-all.
func (h *Handlers) CloseAll(w http.ResponseWriter, r *http.Request) {
	var req deviceIDsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	h.fanOut(w, r, req.DeviceIDs, command.CloseAllApps{})
}

// Shutdown handles POST /api/admin/commands/shutdown.
func (h *Handlers) Shutdown(w http.ResponseWriter, r *http.Request) {
	var req deviceIDsRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	h.fanOut(w, r, req.DeviceIDs, command.ShutdownRestart{})
}

// fanOut resolves target ids (every connected device if req is empty) and
// dispatches cmd through the executor.
func (h *Handlers) fanOut(w http.ResponseWriter, r *http.Request, rawIDs []string, cmd command.Command) {
	ids, err := h.resolveIDs(rawIDs)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	result := h.executor.ExecuteBatch(r.Context(), ids, cmd)
	writeJSONOK(w, toBatchResultView(result))
}

func (h *Handlers) resolveIDs(raw []string) ([]device.ID, error) {
	if len(raw) == 0 {
		all := h.devices.List()
		ids := make([]device.ID, 0, len(all))
		for _, d := range all {
			ids = append(ids, d.ID)
		}
		return ids, nil
	}

	ids := make([]device.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, device.ID(parsed))
	}
	return ids, nil
}

func toBatchResultView(res command.BatchResult) BatchResultView {
	out := BatchResultView{Succeeded: make([]string, 0, len(res.Succeeded))}
	for _, id := range res.Succeeded {
		out.Succeeded = append(out.Succeeded, id.String())
	}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, FailedEntryView{DeviceID: f.DeviceID.String(), Error: f.Error})
	}
	return out
}
