package orchestrator

import (
	"context"
	"time"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/events"
	"github.com/arcadefleet/hub/pkg/namestore"
	"github.com/arcadefleet/hub/pkg/registry"
	"github.com/arcadefleet/hub/pkg/wire"
)

// deps bundles the shared state a Handler needs without exposing the
// Orchestrator itself — handlers mutate the device model and emit events,
// nothing else.
type deps struct {
	devices  *devicereg.Registry
	sessions *registry.Registry
	bus      *events.Bus
	names    *namestore.Store // nil is valid: no persisted custom names
}

// Handler declares the opcode it serves and its async handling logic. Unlike
// a command's response, a Handler never writes back to the wire except where
// the protocol explicitly says a hello triggers a follow-up poll.
type Handler interface {
	Opcode() byte
	Handle(ctx context.Context, d deps, id device.ID, payload []byte) error
}

func (o *Orchestrator) registerDefaultHandlers() {
	o.RegisterHandler(byte(wire.OpDeviceConnected), deviceConnectedHandler{})
	o.RegisterHandler(byte(wire.OpHeartbeat), heartbeatHandler{})
	o.RegisterHandler(byte(wire.OpBatteryStatus), batteryStatusHandler{})
	o.RegisterHandler(byte(wire.OpVolumeStatus), volumeStatusHandler{})
	o.RegisterHandler(byte(wire.OpForegroundAppChanged), foregroundAppHandler{})

	for op := byte(wire.ResponseOpcodeLow); op <= byte(wire.ResponseOpcodeHigh); op++ {
		o.RegisterHandler(op, commandResultHandler{opcode: op})
	}

	o.RegisterHandler(byte(wire.OpApkDownloadProgress), progressHandler{kind: events.KindDownloadProgress})
	o.RegisterHandler(byte(wire.OpApkInstallProgress), progressHandler{kind: events.KindInstallProgress})
}

// deviceConnectedHandler implements the three-field DEVICE_CONNECTED hello
// (spec §9 open question: the newer, three-field variant is canonical).
type deviceConnectedHandler struct{}

func (deviceConnectedHandler) Opcode() byte { return byte(wire.OpDeviceConnected) }

func (deviceConnectedHandler) Handle(ctx context.Context, d deps, id device.ID, payload []byte) error {
	r := wire.NewReader(payload)
	model := r.String()
	rawSerial := r.String()
	version := r.String()
	if err := r.Err(); err != nil {
		return err
	}

	serial, err := device.ParseSerial(rawSerial)
	if err != nil {
		return err
	}

	customName := ""
	if d.names != nil {
		if persisted, ok := d.names.Get(serial); ok {
			customName = persisted
		}
	}

	updated, err := d.devices.Update(id, func(dev device.Device) (device.Device, error) {
		return dev.WithHello(model, serial, customName), nil
	})
	if err != nil {
		return err
	}
	if version != "" {
		d.sessions.SetClientVersion(id, version)
	}

	logger.Info("device connected", logger.DeviceID(id.String()), "serial", serial.String(), "model", model)
	d.bus.Emit(events.Event{
		Kind:     events.KindDeviceConnected,
		DeviceID: id,
		Serial:   serial,
		At:       time.Now(),
		Device:   updated,
	})

	go func() {
		time.Sleep(100 * time.Millisecond)
		if err := d.sessions.SendPacket(id, byte(wire.OpRequestBattery), nil); err != nil {
			logger.Debug("post-hello REQUEST_BATTERY failed", logger.DeviceID(id.String()), logger.Err(err))
		}
		if err := d.sessions.SendPacket(id, byte(wire.OpGetVolume), nil); err != nil {
			logger.Debug("post-hello GET_VOLUME failed", logger.DeviceID(id.String()), logger.Err(err))
		}
	}()

	return nil
}

// heartbeatHandler is a no-op: last_seen is already bumped by the message
// loop before dispatch runs.
type heartbeatHandler struct{}

func (heartbeatHandler) Opcode() byte { return byte(wire.OpHeartbeat) }
func (heartbeatHandler) Handle(context.Context, deps, device.ID, []byte) error { return nil }

type batteryStatusHandler struct{}

func (batteryStatusHandler) Opcode() byte { return byte(wire.OpBatteryStatus) }

func (batteryStatusHandler) Handle(ctx context.Context, d deps, id device.ID, payload []byte) error {
	r := wire.NewReader(payload)
	level := r.U8()
	charging := r.Bool()
	if err := r.Err(); err != nil {
		return err
	}

	updated, err := d.devices.Update(id, func(dev device.Device) (device.Device, error) {
		return dev.WithBattery(level, charging)
	})
	if err != nil {
		return err
	}

	d.bus.Emit(events.Event{Kind: events.KindBatteryUpdated, DeviceID: id, Serial: updated.Serial, At: time.Now(), Device: updated})
	return nil
}

type volumeStatusHandler struct{}

func (volumeStatusHandler) Opcode() byte { return byte(wire.OpVolumeStatus) }

func (volumeStatusHandler) Handle(ctx context.Context, d deps, id device.ID, payload []byte) error {
	r := wire.NewReader(payload)
	first := r.U8()
	second := r.U8()
	if err := r.Err(); err != nil {
		return err
	}

	current, max := device.DecodeVolumeReading(first, second)
	updated, err := d.devices.Update(id, func(dev device.Device) (device.Device, error) {
		return dev.WithVolume(current, max)
	})
	if err != nil {
		return err
	}

	d.bus.Emit(events.Event{Kind: events.KindVolumeUpdated, DeviceID: id, Serial: updated.Serial, At: time.Now(), Device: updated})
	return nil
}

type foregroundAppHandler struct{}

func (foregroundAppHandler) Opcode() byte { return byte(wire.OpForegroundAppChanged) }

func (foregroundAppHandler) Handle(ctx context.Context, d deps, id device.ID, payload []byte) error {
	r := wire.NewReader(payload)
	pkgRaw := r.String()
	_ = r.String() // human-readable app name; not persisted on the device record
	if err := r.Err(); err != nil {
		return err
	}

	pkg, err := device.ParsePackageName(pkgRaw)
	if err != nil {
		return err
	}

	updated, err := d.devices.Update(id, func(dev device.Device) (device.Device, error) {
		return dev.WithRunningApp(pkg), nil
	})
	if err != nil {
		return err
	}

	d.bus.Emit(events.Event{Kind: events.KindDeviceUpdated, DeviceID: id, Serial: updated.Serial, At: time.Now(), Device: updated})
	return nil
}

// commandResultHandler serves one response opcode in 0x10..0x18 (one
// instance is registered per opcode). It never alters connection state; it
// only surfaces a CommandResult event carrying that opcode.
type commandResultHandler struct {
	opcode byte
}

func (h commandResultHandler) Opcode() byte { return h.opcode }

func (h commandResultHandler) Handle(ctx context.Context, d deps, id device.ID, payload []byte) error {
	r := wire.NewReader(payload)
	success := r.Bool()
	message := r.String()
	if err := r.Err(); err != nil {
		return err
	}

	dev, _ := d.devices.Get(id)
	d.bus.Emit(events.Event{
		Kind:     events.KindCommandResult,
		DeviceID: id,
		Serial:   dev.Serial,
		At:       time.Now(),
		Opcode:   h.opcode,
		Success:  success,
		Message:  message,
	})
	return nil
}

// progressHandler serves APK_DOWNLOAD_PROGRESS and APK_INSTALL_PROGRESS.
type progressHandler struct {
	kind events.Kind
}

func (progressHandler) Opcode() byte { return 0 }

func (p progressHandler) Handle(ctx context.Context, d deps, id device.ID, payload []byte) error {
	r := wire.NewReader(payload)
	opID := r.UUID()
	stage := r.U8()
	percent := r.F32()
	if err := r.Err(); err != nil {
		return err
	}

	dev, _ := d.devices.Get(id)
	d.bus.Emit(events.Event{
		Kind:        p.kind,
		DeviceID:    id,
		Serial:      dev.Serial,
		At:          time.Now(),
		OperationID: opID,
		Stage:       stage,
		Percent:     percent,
	})
	return nil
}
