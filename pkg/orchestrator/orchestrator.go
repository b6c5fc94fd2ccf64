// Package orchestrator implements C4: the TCP accept loop, per-session
// message loop, and opcode dispatcher that sit between the wire and the
// device model. A capacity-guarded accept loop hands each connection its
// own goroutine running a heartbeat-timed message loop.
package orchestrator

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/internal/telemetry"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/events"
	"github.com/arcadefleet/hub/pkg/metrics"
	"github.com/arcadefleet/hub/pkg/namestore"
	"github.com/arcadefleet/hub/pkg/registry"
	"github.com/arcadefleet/hub/pkg/session"
	"github.com/arcadefleet/hub/pkg/wire"
)

// Config holds the accept loop's tunables (spec §6 environment variables).
type Config struct {
	BindAddress      string
	Port             int
	MaxConnections   int
	HeartbeatTimeout time.Duration
	ShutdownTimeout  time.Duration
}

// DefaultConfig matches the documented defaults: port 43572, 100 max
// connections, 30s heartbeat timeout, 5s shutdown grace window.
func DefaultConfig() Config {
	return Config{
		BindAddress:      "0.0.0.0",
		Port:             43572,
		MaxConnections:   100,
		HeartbeatTimeout: 30 * time.Second,
		ShutdownTimeout:  5 * time.Second,
	}
}

// Orchestrator owns the listener, both registries, the event bus, and the
// opcode dispatcher. One Orchestrator serves the whole device-control port.
type Orchestrator struct {
	cfg Config

	sessions *registry.Registry
	devices  *devicereg.Registry
	bus      *events.Bus
	names    *namestore.Store
	handlers [32]Handler // opcode-indexed; spec §9 fixed-array dispatch

	listener net.Listener
	connWg   sync.WaitGroup
	shutdown chan struct{}
	shutOnce sync.Once
	connCnt  atomic.Int32
	metrics  metrics.SessionMetrics
}

// New wires an Orchestrator against existing registries and event bus so
// tests and the command executor can observe/share the same state. names
// may be nil; a nil store simply means no custom name is merged on connect.
func New(cfg Config, sessions *registry.Registry, devices *devicereg.Registry, bus *events.Bus, names *namestore.Store) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		sessions: sessions,
		devices:  devices,
		bus:      bus,
		names:    names,
		shutdown: make(chan struct{}),
		metrics:  metrics.NewSessionMetrics(),
	}
	o.registerDefaultHandlers()
	return o
}

// RegisterHandler installs a handler for opcode, overriding any default.
// Intended for tests that want to observe or stub a single opcode.
func (o *Orchestrator) RegisterHandler(opcode byte, h Handler) {
	o.handlers[opcode] = h
}

// ActiveConnections returns the current live-session count.
func (o *Orchestrator) ActiveConnections() int32 {
	return o.connCnt.Load()
}

// Serve binds the listener and runs the accept loop until ctx is cancelled
// or Stop is called. It returns once the listener is closed.
func (o *Orchestrator) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", o.cfg.BindAddress, o.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("orchestrator: listen on %s: %w", addr, err)
	}
	o.listener = listener

	logger.Info("device-control server listening", "addr", addr)

	go func() {
		<-ctx.Done()
		o.Stop()
	}()

	for {
		conn, err := o.listener.Accept()
		if err != nil {
			select {
			case <-o.shutdown:
				return o.drain()
			default:
				logger.Debug("accept error", logger.Err(err))
				continue
			}
		}

		if int(o.connCnt.Load()) >= o.cfg.MaxConnections {
			logger.Warn("device-control at capacity, dropping connection",
				"remote_addr", conn.RemoteAddr().String(),
				"max_connections", o.cfg.MaxConnections)
			_ = conn.Close()
			continue
		}

		o.connWg.Add(1)
		o.connCnt.Add(1)
		go o.serveConnection(conn)
	}
}

// Stop signals the accept loop and all message loops to exit. Safe to call
// more than once.
func (o *Orchestrator) Stop() {
	o.shutOnce.Do(func() {
		close(o.shutdown)
		if o.listener != nil {
			_ = o.listener.Close()
		}
	})
}

// drain waits for in-flight message loops to finish, up to ShutdownTimeout.
func (o *Orchestrator) drain() error {
	done := make(chan struct{})
	go func() {
		o.connWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(o.cfg.ShutdownTimeout):
		return fmt.Errorf("orchestrator: shutdown timeout with %d connections still active", o.connCnt.Load())
	}
}

// serveConnection promotes a raw net.Conn into a registered Session and
// Device record, runs the message loop, and guarantees exactly-once
// teardown on exit.
func (o *Orchestrator) serveConnection(conn net.Conn) {
	defer o.connWg.Done()
	defer func() {
		o.connCnt.Add(-1)
	}()

	id := device.NewID()
	remoteAddr := conn.RemoteAddr().String()
	sess := session.New(id, conn)
	now := time.Now()

	o.sessions.Add(id, sess)
	o.devices.Put(device.NewProvisional(id, remoteAddr, now))
	metrics.RecordConnect(o.metrics, id.String())
	metrics.SetActiveSessions(o.metrics, int(o.connCnt.Load()))

	logger.Debug("device connection accepted", logger.DeviceID(id.String()), logger.RemoteAddr(remoteAddr))

	o.messageLoop(id, sess)
	o.teardown(id, sess)
}

// messageLoop implements spec §4.4: blocking receive with a heartbeat
// deadline, dispatch on success, break cleanly on orderly close or error.
func (o *Orchestrator) messageLoop(id device.ID, sess *session.Session) {
	for {
		select {
		case <-o.shutdown:
			return
		default:
		}

		deadline := time.Now().Add(o.cfg.HeartbeatTimeout)
		_ = sess.SetReadDeadline(deadline)

		pkt, err := sess.ReceiveOne()
		if err != nil {
			if isTimeout(err) {
				logger.Info("heartbeat timeout", logger.DeviceID(id.String()))
			} else {
				logger.Debug("session receive error", logger.DeviceID(id.String()), logger.Err(err))
			}
			return
		}
		if pkt == nil {
			logger.Debug("session closed by peer", logger.DeviceID(id.String()))
			return
		}

		if _, err := o.devices.Update(id, func(d device.Device) (device.Device, error) {
			return d.WithLastSeen(time.Now())
		}); err != nil {
			logger.Debug("failed to bump last_seen", logger.DeviceID(id.String()), logger.Err(err))
		}

		if wire.IsResponseOpcode(wire.Opcode(pkt.Opcode)) {
			sess.ReleaseRequest(pkt.Opcode)
		}

		o.dispatch(id, pkt.Opcode, pkt.Payload)
	}
}

// dispatch routes a received packet to its opcode handler. Unknown opcodes
// are logged at debug and silently dropped, per spec §4.4.
func (o *Orchestrator) dispatch(id device.ID, opcode byte, payload []byte) {
	ctx, span := telemetry.StartDispatchSpan(context.Background(), opcodeName(opcode), id.String(), telemetry.PayloadLen(len(payload)))
	defer span.End()

	if int(opcode) >= len(o.handlers) {
		logger.Debug("unknown opcode dropped", logger.DeviceID(id.String()), logger.Opcode(opcodeName(opcode)))
		return
	}
	h := o.handlers[opcode]
	if h == nil {
		logger.Debug("unknown opcode dropped", logger.DeviceID(id.String()), logger.Opcode(opcodeName(opcode)))
		return
	}

	if err := h.Handle(ctx, deps{devices: o.devices, sessions: o.sessions, bus: o.bus, names: o.names}, id, payload); err != nil {
		logger.Warn("handler error", logger.DeviceID(id.String()), logger.Opcode(opcodeName(opcode)), logger.Err(err))
	}
}

// teardown runs exactly once per connection regardless of how the message
// loop exited: remove the session, remove the device record, emit
// DeviceDisconnected.
func (o *Orchestrator) teardown(id device.ID, sess *session.Session) {
	o.sessions.Remove(id)
	_ = sess.Close()
	metrics.RecordDisconnect(o.metrics, id.String(), "closed")
	metrics.SetActiveSessions(o.metrics, int(o.connCnt.Load())-1)

	d, existed := o.devices.Remove(id)
	if !existed {
		return
	}

	logger.Info("device disconnected", logger.DeviceID(id.String()), "serial", d.Serial.String())
	o.bus.Emit(events.Event{
		Kind:     events.KindDeviceDisconnected,
		DeviceID: id,
		Serial:   d.Serial,
		At:       time.Now(),
		Device:   d,
	})
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeouter); ok {
			return t.Timeout()
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

func opcodeName(opcode byte) string {
	return wire.Opcode(opcode).Name()
}
