package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "arcade-hub", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Should be able to call shutdown without error
	err = shutdown(ctx)
	assert.NoError(t, err)

	// Should not be enabled
	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	// Reset state
	tracer = nil
	enabled = false

	// Without initialization, should return no-op tracer
	tr := Tracer()
	require.NotNil(t, tr)
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Even without initialization, StartSpan should work (no-op)
	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	// Should be able to end the span
	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()

	// Should return a span even without active span
	span := SpanFromContext(ctx)
	require.NotNil(t, span)
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	// Should not panic with no active span
	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	// Should not panic with nil error
	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	// Should not panic with error
	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetAttributes(ctx, RemoteAddr("192.168.1.1:5000"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("RemoteAddr", func(t *testing.T) {
		attr := RemoteAddr("192.168.1.100:5000")
		assert.Equal(t, AttrRemoteAddr, string(attr.Key))
		assert.Equal(t, "192.168.1.100:5000", attr.Value.AsString())
	})

	t.Run("DeviceID", func(t *testing.T) {
		attr := DeviceID("device-1")
		assert.Equal(t, AttrDeviceID, string(attr.Key))
		assert.Equal(t, "device-1", attr.Value.AsString())
	})

	t.Run("Serial", func(t *testing.T) {
		attr := Serial("SN-0001")
		assert.Equal(t, AttrSerial, string(attr.Key))
		assert.Equal(t, "SN-0001", attr.Value.AsString())
	})

	t.Run("Opcode", func(t *testing.T) {
		attr := Opcode("LAUNCH_APP")
		assert.Equal(t, AttrOpcode, string(attr.Key))
		assert.Equal(t, "LAUNCH_APP", attr.Value.AsString())
	})

	t.Run("PayloadLen", func(t *testing.T) {
		attr := PayloadLen(128)
		assert.Equal(t, AttrPayloadLen, string(attr.Key))
		assert.Equal(t, int64(128), attr.Value.AsInt64())
	})

	t.Run("Status", func(t *testing.T) {
		attr := Status(0)
		assert.Equal(t, AttrStatus, string(attr.Key))
		assert.Equal(t, int64(0), attr.Value.AsInt64())
	})

	t.Run("OperationID", func(t *testing.T) {
		attr := OperationID("op-1")
		assert.Equal(t, AttrOperationID, string(attr.Key))
		assert.Equal(t, "op-1", attr.Value.AsString())
	})

	t.Run("BatchID", func(t *testing.T) {
		attr := BatchID("batch-1")
		assert.Equal(t, AttrBatchID, string(attr.Key))
		assert.Equal(t, "batch-1", attr.Value.AsString())
	})

	t.Run("TargetCount", func(t *testing.T) {
		attr := TargetCount(5)
		assert.Equal(t, AttrTargetCount, string(attr.Key))
		assert.Equal(t, int64(5), attr.Value.AsInt64())
	})

	t.Run("GameID", func(t *testing.T) {
		attr := GameID("beat-saber")
		assert.Equal(t, AttrGameID, string(attr.Key))
		assert.Equal(t, "beat-saber", attr.Value.AsString())
	})

	t.Run("VersionID", func(t *testing.T) {
		attr := VersionID("v3")
		assert.Equal(t, AttrVersionID, string(attr.Key))
		assert.Equal(t, "v3", attr.Value.AsString())
	})

	t.Run("Bucket", func(t *testing.T) {
		attr := Bucket("my-bucket")
		assert.Equal(t, AttrBucket, string(attr.Key))
		assert.Equal(t, "my-bucket", attr.Value.AsString())
	})

	t.Run("StorageKey", func(t *testing.T) {
		attr := StorageKey("path/to/object")
		assert.Equal(t, AttrKey, string(attr.Key))
		assert.Equal(t, "path/to/object", attr.Value.AsString())
	})
}

func TestStartDispatchSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartDispatchSpan(ctx, "LAUNCH_APP", "device-1")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartDispatchSpan(ctx, "SET_VOLUME", "device-2", PayloadLen(4))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartBatchSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartBatchSpan(ctx, "batch-1", 3)
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartBatchSpan(ctx, "batch-2", 1, PackageName("com.studio.beatsaber"))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartSyncSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartSyncSpan(ctx, SpanSyncCheckUpdate, "beat-saber")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartSyncSpan(ctx, SpanSyncDownload, "beat-saber", VersionID("v3"), BytesTotal(1024))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}
