package command

import (
	"context"
	"sync"
	"time"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/internal/telemetry"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/metrics"
	"github.com/arcadefleet/hub/pkg/registry"
)

// Executor resolves device identity and session state through the device
// and session registries and fans a Command out to one or many devices. It
// never waits for a device's reply: any response arrives later through the
// dispatcher as a CommandResult event.
type Executor struct {
	devices  *devicereg.Registry
	sessions *registry.Registry
	metrics  metrics.CommandMetrics
}

// New builds an Executor against the orchestrator's live registries.
func New(devices *devicereg.Registry, sessions *registry.Registry) *Executor {
	return &Executor{devices: devices, sessions: sessions, metrics: metrics.NewCommandMetrics()}
}

// ExecuteOne validates cmd, confirms the device and its session both exist,
// serializes and sends the packet, and returns. A non-nil error is a
// *device.DomainError (ErrValidationFailed, ErrDeviceNotFound, or
// ErrDeviceDisconnected when the device is registered but has no live
// session), or a *session.Error when the write to the live session fails.
func (e *Executor) ExecuteOne(ctx context.Context, id device.ID, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if _, ok := e.devices.Get(id); !ok {
		return device.NewDeviceNotFoundError(id.String())
	}
	if !e.sessions.Has(id) {
		return device.NewDeviceDisconnectedError(id.String())
	}

	payload := cmd.Serialize()
	if err := e.sessions.SendPacket(id, cmd.Opcode(), payload); err != nil {
		return err
	}

	logger.Debug("command sent", logger.DeviceID(id.String()), logger.Opcode(cmd.Name()))
	return nil
}

// ExecuteBatch fans cmd out to every id in parallel, one goroutine per
// device, and collects results as they complete. It never short-circuits:
// every id in ids is attempted, and the returned BatchResult always
// accounts for exactly len(ids) devices split between Succeeded and Failed.
func (e *Executor) ExecuteBatch(ctx context.Context, ids []device.ID, cmd Command) BatchResult {
	ctx, span := telemetry.StartBatchSpan(ctx, cmd.Name(), len(ids))
	defer span.End()

	start := time.Now()
	metrics.ObserveFanOut(e.metrics, cmd.Name(), len(ids))

	type outcome struct {
		id  device.ID
		err error
	}

	results := make(chan outcome, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id device.ID) {
			defer wg.Done()
			err := e.ExecuteOne(ctx, id, cmd)
			results <- outcome{id: id, err: err}
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var res BatchResult
	for o := range results {
		if o.err != nil {
			res.Failed = append(res.Failed, FailedEntry{DeviceID: o.id, Error: o.err.Error()})
			metrics.ObserveOutcome(e.metrics, cmd.Name(), "nack", time.Since(start))
			continue
		}
		res.Succeeded = append(res.Succeeded, o.id)
		metrics.ObserveOutcome(e.metrics, cmd.Name(), "ack", time.Since(start))
	}
	return res
}
