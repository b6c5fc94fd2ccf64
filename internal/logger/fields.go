package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the hub and agent.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Device Protocol
	// ========================================================================
	KeyOpcode      = "opcode"       // wire opcode name: LAUNCH_APP, SET_VOLUME, etc.
	KeyDeviceID    = "device_id"    // DeviceId assigned at registration
	KeySerial      = "serial"       // hardware serial reported by the device
	KeyPackageName = "package_name" // Android package name targeted by a command
	KeyRemoteAddr  = "remote_addr"  // TCP remote address of the device connection
	KeyStatus      = "status"       // operation status code
	KeyStatusMsg   = "status_msg"   // human-readable status message

	// ========================================================================
	// Session & Connection
	// ========================================================================
	KeySessionID    = "session_id"    // session identifier
	KeyConnectionID = "connection_id" // accepted-connection identifier
	KeyOperationID  = "operation_id"  // command executor correlation id

	// ========================================================================
	// Command Executor
	// ========================================================================
	KeyBatchID     = "batch_id"     // execute_batch correlation id
	KeyTargetCount = "target_count" // number of devices targeted by a batch
	KeySucceeded   = "succeeded"    // number of devices a batch succeeded against
	KeyFailed      = "failed"       // number of devices a batch failed against

	// ========================================================================
	// Delta-Sync Distribution
	// ========================================================================
	KeyGameID       = "game_id"       // game identifier
	KeyVersionID     = "version_id"    // manifest version identifier
	KeyFilePath     = "file_path"     // manifest-relative file path
	KeyBytesTotal   = "bytes_total"   // total bytes to transfer
	KeyBytesDone    = "bytes_done"    // bytes transferred so far
	KeyFilesTotal   = "files_total"   // total files in an install plan
	KeyFilesDone    = "files_done"    // files completed so far

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric/symbolic error code
	KeySource     = "source"      // subsystem emitting the log line
	KeyAttempt    = "attempt"     // retry attempt number
	KeyMaxRetries = "max_retries" // maximum retry attempts

	// ========================================================================
	// Storage Backend (Artifact Store)
	// ========================================================================
	KeyStoreName = "store_name" // named artifact store identifier
	KeyStoreType = "store_type" // store type: memory, s3
	KeyBucket    = "bucket"     // cloud bucket name
	KeyKey       = "key"        // object key in cloud storage
	KeyRegion    = "region"     // cloud region
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID.
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for OpenTelemetry span ID.
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// Opcode returns a slog.Attr for the wire opcode name.
func Opcode(name string) slog.Attr { return slog.String(KeyOpcode, name) }

// DeviceID returns a slog.Attr for a DeviceId.
func DeviceID(id string) slog.Attr { return slog.String(KeyDeviceID, id) }

// Serial returns a slog.Attr for a device serial.
func Serial(serial string) slog.Attr { return slog.String(KeySerial, serial) }

// PackageName returns a slog.Attr for an Android package name.
func PackageName(pkg string) slog.Attr { return slog.String(KeyPackageName, pkg) }

// RemoteAddr returns a slog.Attr for a device's TCP remote address.
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }

// Status returns a slog.Attr for an operation status code.
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }

// StatusMsg returns a slog.Attr for a human-readable status message.
func StatusMsg(msg string) slog.Attr { return slog.String(KeyStatusMsg, msg) }

// SessionID returns a slog.Attr for a session identifier.
func SessionID(id string) slog.Attr { return slog.String(KeySessionID, id) }

// ConnectionID returns a slog.Attr for an accepted-connection identifier.
func ConnectionID(id string) slog.Attr { return slog.String(KeyConnectionID, id) }

// OperationID returns a slog.Attr for a command executor correlation id.
func OperationID(id string) slog.Attr { return slog.String(KeyOperationID, id) }

// BatchID returns a slog.Attr for an execute_batch correlation id.
func BatchID(id string) slog.Attr { return slog.String(KeyBatchID, id) }

// TargetCount returns a slog.Attr for the number of devices targeted by a batch.
func TargetCount(n int) slog.Attr { return slog.Int(KeyTargetCount, n) }

// Succeeded returns a slog.Attr for the number of devices a batch succeeded against.
func Succeeded(n int) slog.Attr { return slog.Int(KeySucceeded, n) }

// Failed returns a slog.Attr for the number of devices a batch failed against.
func Failed(n int) slog.Attr { return slog.Int(KeyFailed, n) }

// GameID returns a slog.Attr for a game identifier.
func GameID(id string) slog.Attr { return slog.String(KeyGameID, id) }

// VersionID returns a slog.Attr for a manifest version identifier.
func VersionID(id string) slog.Attr { return slog.String(KeyVersionID, id) }

// FilePath returns a slog.Attr for a manifest-relative file path.
func FilePath(p string) slog.Attr { return slog.String(KeyFilePath, p) }

// BytesTotal returns a slog.Attr for total transfer size.
func BytesTotal(n int64) slog.Attr { return slog.Int64(KeyBytesTotal, n) }

// BytesDone returns a slog.Attr for bytes transferred so far.
func BytesDone(n int64) slog.Attr { return slog.Int64(KeyBytesDone, n) }

// FilesTotal returns a slog.Attr for the total number of files in an install plan.
func FilesTotal(n int) slog.Attr { return slog.Int(KeyFilesTotal, n) }

// FilesDone returns a slog.Attr for the number of files completed so far.
func FilesDone(n int) slog.Attr { return slog.Int(KeyFilesDone, n) }

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error, or a zero Attr for nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a symbolic error code.
func ErrorCode(code string) slog.Attr { return slog.String(KeyErrorCode, code) }

// Source returns a slog.Attr for the subsystem emitting the log line.
func Source(src string) slog.Attr { return slog.String(KeySource, src) }

// Attempt returns a slog.Attr for a retry attempt number.
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }

// MaxRetries returns a slog.Attr for the maximum retry attempts.
func MaxRetries(n int) slog.Attr { return slog.Int(KeyMaxRetries, n) }

// StoreName returns a slog.Attr for a named artifact store identifier.
func StoreName(name string) slog.Attr { return slog.String(KeyStoreName, name) }

// StoreType returns a slog.Attr for an artifact store type.
func StoreType(t string) slog.Attr { return slog.String(KeyStoreType, t) }

// Bucket returns a slog.Attr for a cloud bucket name.
func Bucket(name string) slog.Attr { return slog.String(KeyBucket, name) }

// Key returns a slog.Attr for an object key in cloud storage.
func Key(k string) slog.Attr { return slog.String(KeyKey, k) }

// Region returns a slog.Attr for a cloud region.
func Region(r string) slog.Attr { return slog.String(KeyRegion, r) }
