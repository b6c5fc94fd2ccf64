package device

import "time"

// Battery is the most recently reported power status of a device.
type Battery struct {
	Level    uint8 // 0..100
	Charging bool
}

// Volume is the most recently reported audio level of a device.
type Volume struct {
	Current uint8
	Max     uint8
}

// Device is the in-memory aggregate for one connected headset. Its public
// API is immutable: every mutator returns a new Device rather than modifying
// the receiver, so handlers can safely hand a Device to callers that don't
// expect it to change under them.
//
// Invariants enforced by every constructor and mutator:
//   - ConnectedAt <= LastSeen
//   - Battery.Level is in [0,100] when present
//   - Volume.Current <= Volume.Max and Volume.Max > 0 when present
type Device struct {
	ID          ID
	Serial      Serial
	Model       string
	IP          string
	ConnectedAt time.Time
	LastSeen    time.Time
	CustomName  string
	RunningApp  PackageName
	Battery     *Battery
	Volume      *Volume
}

// NewProvisional constructs the placeholder record created at accept time,
// before the device's first DEVICE_CONNECTED hello arrives. The serial is
// derived from the remote address so the registry has a stable key even for
// a session that never completes its hello.
func NewProvisional(id ID, remoteAddr string, at time.Time) Device {
	return Device{
		ID:          id,
		Serial:      Serial(remoteAddr),
		IP:          remoteAddr,
		ConnectedAt: at,
		LastSeen:    at,
	}
}

func (d Device) clone() Device {
	out := d
	if d.Battery != nil {
		b := *d.Battery
		out.Battery = &b
	}
	if d.Volume != nil {
		v := *d.Volume
		out.Volume = &v
	}
	return out
}

// WithHello promotes a provisional record once the typed hello arrives:
// model, serial, and (if non-empty) a previously persisted custom name.
func (d Device) WithHello(model string, serial Serial, customName string) Device {
	out := d.clone()
	out.Model = model
	out.Serial = serial
	if customName != "" {
		out.CustomName = customName
	}
	return out
}

// WithLastSeen bumps the liveness timestamp. Returns an error if the new
// timestamp would precede ConnectedAt.
func (d Device) WithLastSeen(at time.Time) (Device, error) {
	if at.Before(d.ConnectedAt) {
		return d, newInvalidArgument("last_seen precedes connected_at")
	}
	out := d.clone()
	out.LastSeen = at
	return out, nil
}

// WithBattery records a battery reading. level must be in [0,100].
func (d Device) WithBattery(level uint8, charging bool) (Device, error) {
	if level > 100 {
		return d, newInvalidArgument("battery level out of range")
	}
	out := d.clone()
	out.Battery = &Battery{Level: level, Charging: charging}
	return out, nil
}

// WithVolume records a volume reading. max must be > 0 and current <= max.
func (d Device) WithVolume(current, max uint8) (Device, error) {
	if max == 0 {
		return d, newInvalidArgument("volume max must be greater than zero")
	}
	if current > max {
		return d, newInvalidArgument("volume current exceeds max")
	}
	out := d.clone()
	out.Volume = &Volume{Current: current, Max: max}
	return out, nil
}

// WithRunningApp records the foreground package reported by the device.
func (d Device) WithRunningApp(pkg PackageName) Device {
	out := d.clone()
	out.RunningApp = pkg
	return out
}

// WithCustomName applies an operator-assigned display name.
func (d Device) WithCustomName(name string) Device {
	out := d.clone()
	out.CustomName = name
	return out
}

// DecodeVolumeReading applies the legacy VOLUME_STATUS heuristic: when
// first > second > 0 the pair is read as (percentage, max) and current is
// derived by rounding percentage/100*max; otherwise the pair is read
// directly as (current, max).
func DecodeVolumeReading(first, second uint8) (current, max uint8) {
	if first > second && second > 0 {
		percentage, maxVal := first, second
		derived := (float64(percentage) / 100.0) * float64(maxVal)
		current = uint8(derived + 0.5)
		if current > maxVal {
			current = maxVal
		}
		return current, maxVal
	}
	return first, second
}
