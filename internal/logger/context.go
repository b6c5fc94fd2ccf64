package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context
type LogContext struct {
	TraceID     string    // OpenTelemetry trace ID
	SpanID      string    // OpenTelemetry span ID
	Opcode      string    // device-protocol opcode name (LAUNCH_APP, SET_VOLUME, etc.)
	DeviceID    string    // DeviceId assigned at session registration
	Serial      string    // hardware serial reported by the device
	RemoteAddr  string    // TCP remote address (without port normalization)
	OperationID string    // command executor correlation id
	StartTime   time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given remote address
func NewLogContext(remoteAddr string) *LogContext {
	return &LogContext{
		RemoteAddr: remoteAddr,
		StartTime:  time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:     lc.TraceID,
		SpanID:      lc.SpanID,
		Opcode:      lc.Opcode,
		DeviceID:    lc.DeviceID,
		Serial:      lc.Serial,
		RemoteAddr:  lc.RemoteAddr,
		OperationID: lc.OperationID,
		StartTime:   lc.StartTime,
	}
}

// WithOpcode returns a copy with the opcode name set
func (lc *LogContext) WithOpcode(opcode string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Opcode = opcode
	}
	return clone
}

// WithDevice returns a copy with device identity set
func (lc *LogContext) WithDevice(deviceID, serial string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.DeviceID = deviceID
		clone.Serial = serial
	}
	return clone
}

// WithOperation returns a copy with the command executor correlation id set
func (lc *LogContext) WithOperation(operationID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.OperationID = operationID
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
