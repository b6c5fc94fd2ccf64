package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for device-protocol and distribution operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Connection/device attributes
	// ========================================================================
	AttrRemoteAddr = "net.peer.address"
	AttrDeviceID   = "device.id"
	AttrSerial     = "device.serial"
	AttrOpcode     = "wire.opcode"
	AttrPayloadLen = "wire.payload_length"
	AttrStatus     = "op.status"
	AttrStatusMsg  = "op.status_message"

	// ========================================================================
	// Session/orchestrator attributes
	// ========================================================================
	AttrSessionID    = "session.id"
	AttrConnectionID = "connection.id"
	AttrActiveConns  = "orchestrator.active_connections"

	// ========================================================================
	// Command executor attributes
	// ========================================================================
	AttrOperationID  = "command.operation_id"
	AttrBatchID      = "command.batch_id"
	AttrTargetCount  = "command.target_count"
	AttrSucceeded    = "command.succeeded"
	AttrFailed       = "command.failed"
	AttrPackageName  = "command.package_name"

	// ========================================================================
	// Delta-sync distributor attributes
	// ========================================================================
	AttrGameID     = "sync.game_id"
	AttrVersionID  = "sync.version_id"
	AttrFilePath   = "sync.file_path"
	AttrBytesTotal = "sync.bytes_total"
	AttrBytesDone  = "sync.bytes_done"
	AttrFilesTotal = "sync.files_total"
	AttrFilesDone  = "sync.files_done"

	// ========================================================================
	// Storage backend attributes (artifact store)
	// ========================================================================
	AttrStoreName = "store.name"
	AttrStoreType = "store.type"
	AttrBucket    = "storage.bucket"
	AttrKey       = "storage.key"
	AttrRegion    = "storage.region"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	SpanSessionAccept       = "session.accept"
	SpanSessionReceive      = "session.receive"
	SpanSessionSend         = "session.send"
	SpanDispatchHandle      = "dispatch.handle"
	SpanCommandExecuteOne   = "command.execute_one"
	SpanCommandExecuteBatch = "command.execute_batch"
	SpanSyncCheckUpdate     = "sync.check_update"
	SpanSyncDownload        = "sync.download"
	SpanSyncInstall         = "sync.install"
	SpanSyncSelfUpdate      = "sync.self_update"
	SpanArtifactManifest    = "artifact.manifest"
	SpanArtifactSignedURL   = "artifact.signed_url"
)

// RemoteAddr returns an attribute for the device's TCP remote address.
func RemoteAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrRemoteAddr, addr)
}

// DeviceID returns an attribute for a DeviceId.
func DeviceID(id string) attribute.KeyValue {
	return attribute.String(AttrDeviceID, id)
}

// Serial returns an attribute for a device serial.
func Serial(serial string) attribute.KeyValue {
	return attribute.String(AttrSerial, serial)
}

// Opcode returns an attribute for a wire opcode name.
func Opcode(name string) attribute.KeyValue {
	return attribute.String(AttrOpcode, name)
}

// PayloadLen returns an attribute for a decoded packet payload length.
func PayloadLen(n int) attribute.KeyValue {
	return attribute.Int(AttrPayloadLen, n)
}

// Status returns an attribute for an operation status code.
func Status(status int) attribute.KeyValue {
	return attribute.Int(AttrStatus, status)
}

// StatusMsg returns an attribute for a human-readable status message.
func StatusMsg(msg string) attribute.KeyValue {
	return attribute.String(AttrStatusMsg, msg)
}

// SessionID returns an attribute for a session identifier.
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// ConnectionID returns an attribute for an accepted-connection identifier.
func ConnectionID(id string) attribute.KeyValue {
	return attribute.String(AttrConnectionID, id)
}

// ActiveConnections returns an attribute for the orchestrator's live connection count.
func ActiveConnections(n int) attribute.KeyValue {
	return attribute.Int(AttrActiveConns, n)
}

// OperationID returns an attribute for a command executor correlation id.
func OperationID(id string) attribute.KeyValue {
	return attribute.String(AttrOperationID, id)
}

// BatchID returns an attribute for an execute_batch correlation id.
func BatchID(id string) attribute.KeyValue {
	return attribute.String(AttrBatchID, id)
}

// TargetCount returns an attribute for the number of devices targeted by a batch.
func TargetCount(n int) attribute.KeyValue {
	return attribute.Int(AttrTargetCount, n)
}

// Succeeded returns an attribute for the number of devices a batch succeeded against.
func Succeeded(n int) attribute.KeyValue {
	return attribute.Int(AttrSucceeded, n)
}

// Failed returns an attribute for the number of devices a batch failed against.
func Failed(n int) attribute.KeyValue {
	return attribute.Int(AttrFailed, n)
}

// PackageName returns an attribute for an Android package name.
func PackageName(pkg string) attribute.KeyValue {
	return attribute.String(AttrPackageName, pkg)
}

// GameID returns an attribute for a game identifier.
func GameID(id string) attribute.KeyValue {
	return attribute.String(AttrGameID, id)
}

// VersionID returns an attribute for a manifest version identifier.
func VersionID(id string) attribute.KeyValue {
	return attribute.String(AttrVersionID, id)
}

// FilePath returns an attribute for a manifest-relative file path.
func FilePath(path string) attribute.KeyValue {
	return attribute.String(AttrFilePath, path)
}

// BytesTotal returns an attribute for total transfer size.
func BytesTotal(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytesTotal, n)
}

// BytesDone returns an attribute for bytes transferred so far.
func BytesDone(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytesDone, n)
}

// FilesTotal returns an attribute for the total number of files in an install plan.
func FilesTotal(n int) attribute.KeyValue {
	return attribute.Int(AttrFilesTotal, n)
}

// FilesDone returns an attribute for the number of files completed so far.
func FilesDone(n int) attribute.KeyValue {
	return attribute.Int(AttrFilesDone, n)
}

// StoreName returns an attribute for a named artifact store identifier.
func StoreName(name string) attribute.KeyValue {
	return attribute.String(AttrStoreName, name)
}

// StoreType returns an attribute for an artifact store type.
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// Bucket returns an attribute for an S3 bucket name.
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for an S3 object key.
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// Region returns an attribute for a cloud region.
func Region(region string) attribute.KeyValue {
	return attribute.String(AttrRegion, region)
}

// StartSessionSpan starts a span for an accepted device session.
func StartSessionSpan(ctx context.Context, name, remoteAddr string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{RemoteAddr(remoteAddr)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartDispatchSpan starts a span for a single decoded packet dispatched to its handler.
func StartDispatchSpan(ctx context.Context, opcode string, deviceID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Opcode(opcode), DeviceID(deviceID)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanDispatchHandle, trace.WithAttributes(allAttrs...))
}

// StartBatchSpan starts a span for a fan-out command executed against a set of devices.
func StartBatchSpan(ctx context.Context, batchID string, targetCount int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{BatchID(batchID), TargetCount(targetCount)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanCommandExecuteBatch, trace.WithAttributes(allAttrs...))
}

// StartSyncSpan starts a span for a delta-sync distributor operation.
func StartSyncSpan(ctx context.Context, name, gameID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{GameID(gameID)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartArtifactSpan starts a span for an artifact store operation.
func StartArtifactSpan(ctx context.Context, name, storeName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{StoreName(storeName)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}
