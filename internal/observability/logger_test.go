package observability

import (
	"context"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/course-platform/backend/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ObservabilityConfig
		enabled zapcore.Level
		wantErr bool
	}{
		{"json info", config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"}, zapcore.InfoLevel, false},
		{"text debug", config.ObservabilityConfig{LogLevel: "debug", LogFormat: "text"}, zapcore.DebugLevel, false},
		{"invalid level", config.ObservabilityConfig{LogLevel: "verbose", LogFormat: "json"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-123")
	WithRequestID(ctx, logger).Info("tagged")
	WithRequestID(context.Background(), logger).Info("untagged")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "request_id")
}
