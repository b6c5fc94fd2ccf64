// Package session owns one TCP stream per connected device. A Session is
// pure I/O: it frames and unframes wire.RawPacket values and has no business
// logic, event emission, or knowledge of the device model.
package session

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/arcadefleet/hub/internal/logger"
	"github.com/arcadefleet/hub/pkg/device"
	"github.com/arcadefleet/hub/pkg/wire"
)

// readBufSize is the scratch buffer size for accumulating frame bytes before
// a complete RawPacket can be decoded.
const readBufSize = 4096

// reqOpcodeLow and reqOpcodeHigh bound the request-shaped S->C opcode range
// (wire.ResponseOpcodeLow/High): each of these opcodes gets its own
// in-flight-request semaphore so the hub never has two outstanding
// LAUNCH_APP (or any other single-opcode) requests racing on one session.
const (
	reqOpcodeLow  = 0x10
	reqOpcodeHigh = 0x18

	// requestTimeout auto-releases a request slot if the device never sends
	// a matching response, so a silent device cannot wedge that opcode for
	// the rest of the session's lifetime.
	requestTimeout = 10 * time.Second
)

func isRequestOpcode(opcode byte) bool {
	return opcode >= reqOpcodeLow && opcode <= reqOpcodeHigh
}

// Error reports a session-level I/O failure, distinct from an orderly close.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "session: " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error) *Error { return &Error{Op: op, Err: err} }

// Session owns one net.Conn for the lifetime of a device connection. Reads
// and writes are guarded by independent mutexes so a long-running read never
// blocks a concurrent send, and concurrent senders serialize at the write
// mutex — preserving per-device packet order.
type Session struct {
	ID         device.ID
	RemoteAddr string

	conn net.Conn

	readMu  sync.Mutex
	reader  *bufio.Reader
	scratch []byte

	writeMu sync.Mutex

	// reqSem holds one size-1 semaphore per request-shaped opcode
	// (spec.md §9 "request/response correlation"): Send acquires the slot
	// for reqOpcodeLow..reqOpcodeHigh before writing, and the dispatcher
	// releases it via ReleaseRequest once it observes the matching C->S
	// response opcode.
	reqSem [reqOpcodeHigh - reqOpcodeLow + 1]chan struct{}
}

// New wraps an accepted connection for a freshly minted device id.
func New(id device.ID, conn net.Conn) *Session {
	s := &Session{
		ID:         id,
		RemoteAddr: conn.RemoteAddr().String(),
		conn:       conn,
		reader:     bufio.NewReaderSize(conn, readBufSize),
	}
	for i := range s.reqSem {
		s.reqSem[i] = make(chan struct{}, 1)
	}
	return s
}

// ReceiveOne reads the next framed packet. A nil packet with a nil error
// signals an orderly close (EOF at a frame boundary); a mid-frame EOF is
// returned as a non-nil *Error.
func (s *Session) ReceiveOne() (*wire.RawPacket, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	header, err := s.fill(wire.FrameHeaderLen)
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, nil
		}
		return nil, newError("receive", err)
	}

	pkt, consumed, decErr := wire.Decode(header)
	if decErr != nil {
		return nil, newError("receive", decErr)
	}
	if pkt != nil {
		s.scratch = s.scratch[:0]
		return pkt, nil
	}

	// Header alone wasn't enough; pull in the declared payload length and
	// retry decode against the full frame.
	length := wire.PeekPayloadLen(header)
	full, err := s.fill(wire.FrameHeaderLen + length)
	if err != nil {
		return nil, newError("receive", err)
	}
	pkt, _, decErr = wire.Decode(full)
	if decErr != nil {
		return nil, newError("receive", decErr)
	}
	s.scratch = s.scratch[:0]
	return pkt, nil
}

// fill grows s.scratch to hold at least n bytes read from the connection,
// blocking until they arrive or the connection errors. An EOF that arrives
// before any new byte is returned unchanged so the caller can distinguish an
// orderly close from a mid-frame disconnect.
func (s *Session) fill(n int) ([]byte, error) {
	if len(s.scratch) >= n {
		return s.scratch[:n], nil
	}
	need := n - len(s.scratch)
	buf := make([]byte, need)
	read, err := io.ReadFull(s.reader, buf)
	s.scratch = append(s.scratch, buf[:read]...)
	if err != nil {
		return s.scratch, err
	}
	return s.scratch[:n], nil
}

// Send writes one frame and waits for the OS write to complete. For a
// request-shaped opcode (wire.ResponseOpcodeLow..ResponseOpcodeHigh), Send
// blocks until any previously sent request on that same opcode has either
// been answered (via ReleaseRequest) or timed out, so at most one such
// request is ever outstanding per session per opcode.
func (s *Session) Send(opcode byte, payload []byte) error {
	if isRequestOpcode(opcode) {
		s.acquireRequest(opcode)
	}

	buf, err := wire.Encode(opcode, payload)
	if err != nil {
		if isRequestOpcode(opcode) {
			s.ReleaseRequest(opcode)
		}
		return newError("send", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger.Debug("session send",
		logger.DeviceID(s.ID.String()),
		logger.Opcode(wire.Opcode(opcode).Name()),
		logger.PayloadLen(len(payload)),
	)

	if _, err := s.conn.Write(buf); err != nil {
		if isRequestOpcode(opcode) {
			s.ReleaseRequest(opcode)
		}
		return newError("send", err)
	}
	return nil
}

// acquireRequest blocks until opcode's in-flight-request slot is free and
// claims it, arming an auto-release timer in case the device never
// responds.
func (s *Session) acquireRequest(opcode byte) {
	sem := s.reqSem[opcode-reqOpcodeLow]
	sem <- struct{}{}
	time.AfterFunc(requestTimeout, func() { s.ReleaseRequest(opcode) })
}

// ReleaseRequest frees opcode's in-flight-request slot. Called by the
// dispatcher when it observes the matching C->S response opcode, and by the
// auto-release timer armed in acquireRequest. Safe to call when the slot is
// already free.
func (s *Session) ReleaseRequest(opcode byte) {
	if !isRequestOpcode(opcode) {
		return
	}
	select {
	case <-s.reqSem[opcode-reqOpcodeLow]:
	default:
	}
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	return s.conn.Close()
}

// SetReadDeadline forwards to the underlying connection so the orchestrator
// can enforce the heartbeat timeout without this package exposing net.Conn.
func (s *Session) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}
