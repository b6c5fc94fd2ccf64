// Package wire implements the device-control binary protocol: frame
// encode/decode and the big-endian payload primitives built on top of it.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxPayloadLen is the largest payload a frame may carry.
const MaxPayloadLen = 65535

// frameHeaderLen is the fixed opcode+length prefix on every frame.
const frameHeaderLen = 3

// FrameHeaderLen is the exported form of frameHeaderLen, for callers (such as
// a Session) that need to read exactly one header's worth of bytes before
// they know the frame's total length.
const FrameHeaderLen = frameHeaderLen

// PeekPayloadLen reads the length field out of a header-only buffer without
// decoding a full RawPacket. header must be at least FrameHeaderLen bytes.
func PeekPayloadLen(header []byte) int {
	return int(binary.BigEndian.Uint16(header[1:3]))
}

// ErrPayloadTooLarge is returned by Encode when the payload exceeds MaxPayloadLen.
var ErrPayloadTooLarge = errors.New("wire: payload exceeds 65535 bytes")

// MalformedPacketError reports a frame or primitive that cannot be decoded.
type MalformedPacketError struct {
	Reason string
}

func (e *MalformedPacketError) Error() string {
	return fmt.Sprintf("wire: malformed packet: %s", e.Reason)
}

func malformed(format string, args ...any) error {
	return &MalformedPacketError{Reason: fmt.Sprintf(format, args...)}
}

// RawPacket is one decoded opcode|length|payload frame.
type RawPacket struct {
	Opcode  byte
	Payload []byte
}

// Encode writes opcode|len(payload)|payload into a single allocation.
// It is infallible once payload is bounded by MaxPayloadLen.
func Encode(opcode byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, ErrPayloadTooLarge
	}
	buf := make([]byte, frameHeaderLen+len(payload))
	buf[0] = opcode
	binary.BigEndian.PutUint16(buf[1:3], uint16(len(payload)))
	copy(buf[frameHeaderLen:], payload)
	return buf, nil
}

// Decode attempts to pull one RawPacket off the front of buf.
//
// It returns (packet, bytesConsumed, nil) on a complete frame. When buf does
// not yet hold a full header or a full payload it returns (nil, 0, nil) — the
// caller should read more bytes and retry; Decode never allocates a payload
// buffer before all of it has arrived. A *MalformedPacketError is returned
// only for data that can never become valid, never for a short buffer.
func Decode(buf []byte) (*RawPacket, int, error) {
	if len(buf) < frameHeaderLen {
		return nil, 0, nil
	}
	opcode := buf[0]
	length := int(binary.BigEndian.Uint16(buf[1:3]))
	total := frameHeaderLen + length
	if len(buf) < total {
		return nil, 0, nil
	}
	payload := make([]byte, length)
	copy(payload, buf[frameHeaderLen:total])
	return &RawPacket{Opcode: opcode, Payload: payload}, total, nil
}
