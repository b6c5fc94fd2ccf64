// Package command implements C5: typed S->C commands, their wire
// serialization, and the fan-out executor that sends them through the
// session registry.
package command

import (
	"fmt"

	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/wire"
)

// Command is a value the caller wants delivered to a device. Validate is
// pure and side-effect-free; Serialize is deterministic. Neither touches the
// network — the executor owns that.
type Command interface {
	Opcode() byte
	Name() string
	Validate() error
	Serialize() []byte
}

// LaunchApp starts pkg on the device's foreground.
type LaunchApp struct {
	Package device.PackageName
}

func (LaunchApp) Opcode() byte   { return byte(wire.OpLaunchApp) }
func (LaunchApp) Name() string   { return "LAUNCH_APP" }
func (c LaunchApp) Validate() error {
	if c.Package == "" {
		return device.NewValidationFailedError("launch_app: package is required")
	}
	return nil
}
func (c LaunchApp) Serialize() []byte {
	return wire.NewWriter().String(c.Package.String()).Bytes()
}

// ExecuteShell runs an arbitrary shell command on the device host.
type ExecuteShell struct {
	Cmd string
}

func (ExecuteShell) Opcode() byte { return byte(wire.OpExecuteShell) }
func (ExecuteShell) Name() string { return "EXECUTE_SHELL" }
func (c ExecuteShell) Validate() error {
	if c.Cmd == "" {
		return device.NewValidationFailedError("execute_shell: cmd is required")
	}
	if len(c.Cmd) > 255 {
		return device.NewValidationFailedError("execute_shell: cmd exceeds 255 bytes")
	}
	return nil
}
func (c ExecuteShell) Serialize() []byte {
	return wire.NewWriter().String(c.Cmd).Bytes()
}

// RequestInstalledApps asks the device to enumerate its installed packages.
type RequestInstalledApps struct{}

func (RequestInstalledApps) Opcode() byte     { return byte(wire.OpRequestInstalledApps) }
func (RequestInstalledApps) Name() string     { return "REQUEST_INSTALLED_APPS" }
func (RequestInstalledApps) Validate() error  { return nil }
func (RequestInstalledApps) Serialize() []byte { return nil }

// Ping carries a timestamp the device may echo back for latency probing.
type Ping struct {
	TimestampMs uint64
}

func (Ping) Opcode() byte    { return byte(wire.OpPing) }
func (Ping) Name() string    { return "PING" }
func (Ping) Validate() error { return nil }
func (c Ping) Serialize() []byte {
	return wire.NewWriter().U64(c.TimestampMs).Bytes()
}

// InstallApk tells the device to download and install an APK from url.
type InstallApk struct {
	URL string
}

func (InstallApk) Opcode() byte { return byte(wire.OpInstallApk) }
func (InstallApk) Name() string { return "INSTALL_APK" }
func (c InstallApk) Validate() error {
	if c.URL == "" {
		return device.NewValidationFailedError("install_apk: url is required")
	}
	if len(c.URL) > 255 {
		return device.NewValidationFailedError("install_apk: url exceeds 255 bytes")
	}
	return nil
}
func (c InstallApk) Serialize() []byte {
	return wire.NewWriter().String(c.URL).Bytes()
}

// UninstallApp removes pkg from the device.
type UninstallApp struct {
	Package device.PackageName
}

func (UninstallApp) Opcode() byte { return byte(wire.OpUninstallApp) }
func (UninstallApp) Name() string { return "UNINSTALL_APP" }
func (c UninstallApp) Validate() error {
	if c.Package == "" {
		return device.NewValidationFailedError("uninstall_app: package is required")
	}
	return nil
}
func (c UninstallApp) Serialize() []byte {
	return wire.NewWriter().String(c.Package.String()).Bytes()
}

// SetVolume sets the device's output volume as a percentage, 0..100.
type SetVolume struct {
	Level uint8
}

func (SetVolume) Opcode() byte { return byte(wire.OpSetVolume) }
func (SetVolume) Name() string { return "SET_VOLUME" }
func (c SetVolume) Validate() error {
	if c.Level > 100 {
		return device.NewValidationFailedError(fmt.Sprintf("set_volume: level %d out of range [0,100]", c.Level))
	}
	return nil
}
func (c SetVolume) Serialize() []byte {
	return wire.NewWriter().U8(c.Level).Bytes()
}

// GetVolume requests a fresh VOLUME_STATUS report.
type GetVolume struct{}

func (GetVolume) Opcode() byte      { return byte(wire.OpGetVolume) }
func (GetVolume) Name() string      { return "GET_VOLUME" }
func (GetVolume) Validate() error   { return nil }
func (GetVolume) Serialize() []byte { return nil }

// ShutdownRestart powers off or restarts the device host, per the device's
// own configured behavior for this opcode; the protocol does not distinguish
// the two.
type ShutdownRestart struct{}

func (ShutdownRestart) Opcode() byte      { return byte(wire.OpShutdownRestart) }
func (ShutdownRestart) Name() string      { return "SHUTDOWN_RESTART" }
func (ShutdownRestart) Validate() error   { return nil }
func (ShutdownRestart) Serialize() []byte { return nil }

// RequestBattery asks the device to send a fresh BATTERY_STATUS report. Sent
// once after a device's hello and periodically thereafter by the battery
// monitor (spec.md §5/§6 "battery poll interval").
type RequestBattery struct{}

func (RequestBattery) Opcode() byte      { return byte(wire.OpRequestBattery) }
func (RequestBattery) Name() string      { return "REQUEST_BATTERY" }
func (RequestBattery) Validate() error   { return nil }
func (RequestBattery) Serialize() []byte { return nil }

// CloseAllApps closes every foreground app on the device.
type CloseAllApps struct{}

func (CloseAllApps) Opcode() byte      { return byte(wire.OpCloseAllApps) }
func (CloseAllApps) Name() string      { return "CLOSE_ALL_APPS" }
func (CloseAllApps) Validate() error   { return nil }
func (CloseAllApps) Serialize() []byte { return nil }
