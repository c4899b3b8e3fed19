package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buf, zapcore.DebugLevel)
	return NewLoggerFromCore(core), buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyOutputPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("child"))
}

func TestZapLogger_Levels(t *testing.T) {
	cases := []struct {
		level string
		log   func(Logger, string)
	}{
		{"debug", func(l Logger, m string) { l.Debug(m) }},
		{"info", func(l Logger, m string) { l.Info(m) }},
		{"warn", func(l Logger, m string) { l.Warn(m) }},
		{"error", func(l Logger, m string) { l.Error(m) }},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			l, buf := newTestLogger(t)
			tc.log(l, tc.level+" msg")
			assert.Contains(t, buf.String(), tc.level+" msg")
			assert.Contains(t, buf.String(), `"level":"`+tc.level+`"`)
		})
	}
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.With(Session("s-1"), Jurisdiction("SA"), SearchType("SA_VOLUME_FOLIO")).Info("msg")
	out := buf.String()
	assert.Contains(t, out, `"session_id":"s-1"`)
	assert.Contains(t, out, `"jurisdiction":"SA"`)
	assert.Contains(t, out, `"search_type":"SA_VOLUME_FOLIO"`)
}

func TestZapLogger_TypedFields(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("msg",
		Int("items", 3),
		Int64("page", 2),
		Float64("price", 12.5),
		Bool("chained", true),
		Duration("took", time.Second),
		Err(errors.New("boom")),
		Any("tags", []string{"a"}),
	)
	out := buf.String()
	assert.Contains(t, out, `"items":3`)
	assert.Contains(t, out, `"page":2`)
	assert.Contains(t, out, `"price":12.5`)
	assert.Contains(t, out, `"chained":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestSetLevel(t *testing.T) {
	orig := CurrentLevel()
	defer func() { _ = SetLevel(orig) }()

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, "warn", CurrentLevel())
	assert.Error(t, SetLevel("verbose"))
	assert.True(t, ValidLevel("DEBUG"))
	assert.False(t, ValidLevel("verbose"))
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newTestLogger(t)
	SetDefault(l)
	assert.Equal(t, l, Default())
	SetDefault(nil)
	assert.Equal(t, l, Default())
}

func TestFromContext_AddsRequestID(t *testing.T) {
	l, buf := newTestLogger(t)
	ctx := WithRequestID(context.Background(), "req-123")
	FromContext(ctx, l).Info("msg")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestLogOperationDuration(t *testing.T) {
	l, buf := newTestLogger(t)
	LogOperationDuration(l, "search", time.Now())
	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), "duration_ms")

	buf.Reset()
	LogOperationDuration(l, "search", time.Now().Add(-3*time.Second))
	assert.Contains(t, buf.String(), "slow operation")
}

func TestPrintf_FormatsThroughLogger(t *testing.T) {
	l, buf := newTestLogger(t)
	p := NewPrintf(l)
	p.Debugf("GET %s", "/v1/registries/NSW/search")
	p.Infof("retry %d", 2)
	p.Errorf("status %d", 503)

	out := buf.String()
	assert.Contains(t, out, "GET /v1/registries/NSW/search")
	assert.Contains(t, out, `"msg":"retry 2"`)
	assert.Contains(t, out, `"msg":"status 503"`)
	assert.Contains(t, out, `"level":"error"`)
}
