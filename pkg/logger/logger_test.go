package logger

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewWithConfig(t *testing.T) {
	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := NewWithConfig(Config{
			Level:       "debug",
			Format:      "json",
			OutputPath:  path,
			ServiceName: "vocalab-users",
			Environment: "production",
		})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("console with sampling", func(t *testing.T) {
		l, err := NewWithConfig(Config{Level: "warn", Format: "console", EnableSampling: true})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := NewWithConfig(Config{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("nonsense"))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "u-1001")

	WithContext(ctx, base).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "u-1001", fields["user_id"])
	assert.NotContains(t, fields, "trace_id")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "u-1001", GetUserID(ctx))
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTraceID(ctx, "4bf92f3577b34da6a3ce929d0e0e4736")
	WithContext(ctx, base).Info("traced")
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", logs.All()[1].ContextMap()["trace_id"])
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "abc-123", RequestID("abc-123"))
	assert.Equal(t, strings.Repeat("a", MaxRequestIDLength), RequestID(strings.Repeat("a", MaxRequestIDLength)))

	for name, incoming := range map[string]string{
		"empty":     "",
		"too long":  strings.Repeat("a", MaxRequestIDLength+1),
		"newline":   "abc\ninjected",
		"space":     "abc def",
		"non-ascii": "id-é",
	} {
		t.Run(name, func(t *testing.T) {
			id := RequestID(incoming)
			assert.NotEqual(t, incoming, id)
			assert.Len(t, id, 36)
		})
	}
}

func TestTraceID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "valid", in: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", want: "4bf92f3577b34da6a3ce929d0e0e4736"},
		{name: "empty", in: ""},
		{name: "zero trace id", in: "00-00000000000000000000000000000000-00f067aa0ba902b7-01"},
		{name: "zero parent id", in: "00-4bf92f3577b34da6a3ce929d0e0e4736-0000000000000000-01"},
		{name: "short trace id", in: "00-4bf92f35-00f067aa0ba902b7-01"},
		{name: "invalid version", in: "ff-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"},
		{name: "missing flags", in: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carrier := propagation.MapCarrier{TraceParentHeader: tt.in}
			assert.Equal(t, tt.want, TraceID(carrier))
		})
	}
}

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/vocalab.users.v1.ProfileService/GetProfile"}
	capture := func(ctx context.Context, req any) (any, error) {
		return GetRequestID(ctx), nil
	}

	t.Run("generated", func(t *testing.T) {
		id, err := interceptor(context.Background(), nil, info, capture)
		require.NoError(t, err)
		assert.Len(t, id, 36)
	})

	t.Run("propagated from metadata", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "abc"))
		id, err := interceptor(ctx, nil, info, capture)
		require.NoError(t, err)
		assert.Equal(t, "abc", id)
	})

	t.Run("oversized id replaced", func(t *testing.T) {
		long := strings.Repeat("x", 4096)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, long))
		id, err := interceptor(ctx, nil, info, capture)
		require.NoError(t, err)
		assert.Len(t, id, 36)
	})

	t.Run("trace id from traceparent", func(t *testing.T) {
		md := metadata.Pairs(TraceParentHeader, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
		ctx := metadata.NewIncomingContext(context.Background(), md)
		traceID, err := interceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
			return GetTraceID(ctx), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traceID)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), 0.1, "info")

	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), sql, nil)
	gl.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	gl.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	gl.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "gorm query", entries[0].Message)
	assert.Equal(t, "gorm query", entries[1].Message)
	assert.Equal(t, "gorm query error", entries[2].Message)
	assert.Equal(t, "gorm slow query", entries[3].Message)

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 4, logs.Len())
}
