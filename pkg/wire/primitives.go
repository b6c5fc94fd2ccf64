package wire

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Reader decodes payload primitives from a byte slice without copying the
// slice itself. It never reads past the end of the payload; out-of-bounds
// access returns a MalformedPacketError instead of panicking.
type Reader struct {
	b   []byte
	pos int
	err error
}

// NewReader wraps a decoded packet's payload for primitive reads.
func NewReader(payload []byte) *Reader {
	return &Reader{b: payload}
}

// Err returns the first decode error encountered, if any. Once set, every
// subsequent read is a no-op that returns the zero value.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = malformed(format, args...)
	}
}

func (r *Reader) remaining() int { return len(r.b) - r.pos }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.remaining() < n {
		r.fail("need %d bytes, have %d", n, r.remaining())
		return nil
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out
}

// U8 reads one unsigned byte.
func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// I32 reads a big-endian int32.
func (r *Reader) I32() int32 {
	return int32(r.U32())
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// F32 reads a big-endian IEEE-754 float32.
func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Bool reads one byte: zero is false, any other value is true.
func (r *Reader) Bool() bool {
	return r.U8() != 0
}

// UUID reads 16 raw network-order bytes into a uuid.UUID.
func (r *Reader) UUID() uuid.UUID {
	b := r.take(16)
	if b == nil {
		return uuid.Nil
	}
	var id uuid.UUID
	copy(id[:], b)
	return id
}

// String reads a 1-byte-length-prefixed UTF-8 string, capped at 255 bytes.
func (r *Reader) String() string {
	n := int(r.U8())
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// ASCIIString reads a 2-byte-big-endian-length-prefixed ASCII string, capped
// at 65535 bytes. It fails with MalformedPacketError on any non-ASCII byte.
func (r *Reader) ASCIIString() string {
	n := int(r.U16())
	b := r.take(n)
	if b == nil {
		return ""
	}
	for _, c := range b {
		if c > 0x7F {
			r.fail("non-ASCII byte 0x%02x in ascii-string", c)
			return ""
		}
	}
	return string(b)
}

// Writer encodes payload primitives into a growing byte buffer.
type Writer struct {
	b []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.b }

// U8 appends one unsigned byte.
func (w *Writer) U8(v uint8) *Writer {
	w.b = append(w.b, v)
	return w
}

// U16 appends a big-endian uint16.
func (w *Writer) U16(v uint16) *Writer {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	w.b = append(w.b, buf[:]...)
	return w
}

// U32 appends a big-endian uint32.
func (w *Writer) U32(v uint32) *Writer {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.b = append(w.b, buf[:]...)
	return w
}

// I32 appends a big-endian int32.
func (w *Writer) I32(v int32) *Writer {
	return w.U32(uint32(v))
}

// U64 appends a big-endian uint64.
func (w *Writer) U64(v uint64) *Writer {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.b = append(w.b, buf[:]...)
	return w
}

// F32 appends a big-endian IEEE-754 float32.
func (w *Writer) F32(v float32) *Writer {
	return w.U32(math.Float32bits(v))
}

// Bool appends one byte: 1 for true, 0 for false.
func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

// UUID appends 16 raw network-order bytes.
func (w *Writer) UUID(id uuid.UUID) *Writer {
	w.b = append(w.b, id[:]...)
	return w
}

// String appends a 1-byte-length-prefixed UTF-8 string. The caller is
// responsible for ensuring len(s) <= 255; longer strings are truncated.
func (w *Writer) String(s string) *Writer {
	if len(s) > 255 {
		s = s[:255]
	}
	w.U8(uint8(len(s)))
	w.b = append(w.b, s...)
	return w
}

// ASCIIString appends a 2-byte-big-endian-length-prefixed ASCII string. The
// caller is responsible for ensuring len(s) <= 65535.
func (w *Writer) ASCIIString(s string) *Writer {
	if len(s) > MaxPayloadLen {
		s = s[:MaxPayloadLen]
	}
	w.U16(uint16(len(s)))
	w.b = append(w.b, s...)
	return w
}
