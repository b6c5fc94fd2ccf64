package command

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/devicereg"
	"github.com/arcadefleet/hub/pkg/registry"
	"github.com/arcadefleet/hub/pkg/session"
	"github.com/arcadefleet/hub/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRig wires a real devicereg/registry pair against net.Pipe-backed
// sessions, the same shape the orchestrator builds in production.
type testRig struct {
	devices  *devicereg.Registry
	sessions *registry.Registry
}

func newTestRig() *testRig {
	return &testRig{devices: devicereg.New(), sessions: registry.New()}
}

// connect registers a fully-connected device with a live net.Pipe session and
// returns the client side so the test can drain or close it.
func (r *testRig) connect(t *testing.T) (device.ID, net.Conn) {
	t.Helper()
	id := device.NewID()
	serverConn, clientConn := net.Pipe()
	t.Cleanup(func() { _ = serverConn.Close(); _ = clientConn.Close() })

	sess := session.New(id, serverConn)
	r.devices.Put(device.NewProvisional(id, "10.0.0.1:9000", time.Now()))
	r.sessions.Add(id, sess)
	return id, clientConn
}

func TestExecuteOneSendsSerializedPacket(t *testing.T) {
	rig := newTestRig()
	id, client := rig.connect(t)

	cmd := SetVolume{Level: 10}
	errCh := make(chan error, 1)
	go func() {
		errCh <- New(rig.devices, rig.sessions).ExecuteOne(context.Background(), id, cmd)
	}()

	buf := make([]byte, 4)
	_, err := client.Read(buf)
	require.NoError(t, err)
	require.NoError(t, <-errCh)

	pkt, _, err := wire.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, byte(wire.OpSetVolume), pkt.Opcode)
	assert.Equal(t, []byte{10}, pkt.Payload)
}

func TestExecuteOneFailsValidationBeforeTouchingRegistries(t *testing.T) {
	rig := newTestRig()
	err := New(rig.devices, rig.sessions).ExecuteOne(context.Background(), device.NewID(), SetVolume{Level: 200})
	require.Error(t, err)
	var domainErr *device.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, device.ErrValidationFailed, domainErr.Code)
}

func TestExecuteOneDeviceNotFound(t *testing.T) {
	rig := newTestRig()
	err := New(rig.devices, rig.sessions).ExecuteOne(context.Background(), device.NewID(), CloseAllApps{})
	require.Error(t, err)
	var domainErr *device.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, device.ErrDeviceNotFound, domainErr.Code)
}

func TestExecuteOneSessionNotFound(t *testing.T) {
	rig := newTestRig()
	id := device.NewID()
	rig.devices.Put(device.NewProvisional(id, "10.0.0.2:9000", time.Now()))

	err := New(rig.devices, rig.sessions).ExecuteOne(context.Background(), id, CloseAllApps{})
	require.Error(t, err)
	var domainErr *device.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, device.ErrDeviceDisconnected, domainErr.Code)
}

// TestExecuteBatchWithOneDisconnectedDevice covers the boundary case: three
// devices connected, one disconnects, the batch reports exactly two
// successes and one failure and never short-circuits.
func TestExecuteBatchWithOneDisconnectedDevice(t *testing.T) {
	rig := newTestRig()
	a, clientA := rig.connect(t)
	b, clientB := rig.connect(t)
	c, _ := rig.connect(t)

	// Drain sends on the side we keep open so Send doesn't block forever.
	go func() { _, _ = clientA.Read(make([]byte, 64)) }()
	go func() { _, _ = clientB.Read(make([]byte, 64)) }()

	rig.sessions.Remove(c) // C disconnects

	pkg, err := device.ParsePackageName("com.x.y")
	require.NoError(t, err)

	result := New(rig.devices, rig.sessions).ExecuteBatch(context.Background(), []device.ID{a, b, c}, LaunchApp{Package: pkg})

	assert.ElementsMatch(t, []device.ID{a, b}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, c, result.Failed[0].DeviceID)
	assert.Equal(t, 3, result.Total())
	assert.Equal(t, 2, result.SuccessCount())
	assert.Equal(t, 1, result.FailureCount())
	assert.InDelta(t, 2.0/3.0, result.SuccessRate(), 0.0001)
}

func TestExecuteBatchEmptyInput(t *testing.T) {
	rig := newTestRig()
	result := New(rig.devices, rig.sessions).ExecuteBatch(context.Background(), nil, CloseAllApps{})
	assert.Equal(t, 0, result.Total())
	assert.Equal(t, float64(0), result.SuccessRate())
}
