// Package batterymonitor runs the background battery-status poll named in
// spec.md §5/§6 ("battery poll interval", default 60s): a ticker that
// periodically fans REQUEST_BATTERY out to every currently connected device,
// the same way the hello handler does once, immediately after connect.
//
// Grounded on the original implementation's BatteryMonitor service
// (src-tauri/src/application/services/battery_monitor.rs): a ticker loop
// that lists connected devices, skips the tick entirely when none are
// connected, and fans RequestBatteryCommand out via the same batch executor
// the rest of the system uses.
package batterymonitor

import (
	"context"
	"time"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/command"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/registry"
)

// Monitor periodically re-requests BATTERY_STATUS from every connected
// device through the shared command executor.
type Monitor struct {
	devices  *devicereg.Registry
	sessions *registry.Registry
	executor *command.Executor
	interval time.Duration
}

// New builds a Monitor against the orchestrator's live registries and
// command executor, polling every interval.
func New(devices *devicereg.Registry, sessions *registry.Registry, executor *command.Executor, interval time.Duration) *Monitor {
	return &Monitor{devices: devices, sessions: sessions, executor: executor, interval: interval}
}

// Run blocks, polling every m.interval, until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	logger.Info("battery monitor started", "interval", m.interval.String())

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

// pollOnce fans REQUEST_BATTERY out to every device with a live session.
// A connected-device record with no live session (a narrow teardown race)
// is simply skipped rather than treated as a failure.
func (m *Monitor) pollOnce(ctx context.Context) {
	all := m.devices.List()
	if len(all) == 0 {
		logger.Debug("battery monitor: no devices to poll")
		return
	}

	ids := make([]device.ID, 0, len(all))
	for _, d := range all {
		if m.sessions.Has(d.ID) {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) == 0 {
		logger.Debug("battery monitor: no connected devices to poll")
		return
	}

	result := m.executor.ExecuteBatch(ctx, ids, command.RequestBattery{})

	logger.Debug("battery poll completed",
		logger.TargetCount(len(ids)),
		logger.Succeeded(result.SuccessCount()),
		logger.Failed(result.FailureCount()),
	)
	for _, f := range result.Failed {
		logger.Warn("battery poll failed for device", logger.DeviceID(f.DeviceID.String()), "error", f.Error)
	}
}
