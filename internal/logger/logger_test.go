package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

func TestParseEnv(t *testing.T) {
	assert.Equal(t, EnvProd, ParseEnv(" Production "))
	assert.Equal(t, EnvStage, ParseEnv("staging"))
	assert.Equal(t, EnvDev, ParseEnv(""))
	assert.Equal(t, EnvDev, ParseEnv("qa"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, toZapLevel(slog.LevelDebug))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel(slog.LevelInfo))
	assert.Equal(t, zapcore.ErrorLevel, toZapLevel(slog.LevelError))
}

func TestNewHonoursLevel(t *testing.T) {
	for _, backend := range []Backend{BackendStd, BackendZap} {
		l := New(Config{Service: "messenger-service", Level: slog.LevelWarn, Backend: backend})
		assert.False(t, l.Enabled(context.Background(), slog.LevelInfo), backend)
		assert.True(t, l.Enabled(context.Background(), slog.LevelError), backend)
	}
}

func TestAttrsFromCtxWithoutSpan(t *testing.T) {
	assert.Nil(t, AttrsFromCtx(context.Background()))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1},
		SpanID:  trace.SpanID{2},
	})
	attrs := AttrsFromCtx(trace.ContextWithSpanContext(context.Background(), sc))
	assert.Len(t, attrs, 2)
}
