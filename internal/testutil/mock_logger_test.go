package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/titleorder/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareBuffer(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("order").With(logging.Session("s-1"))
	child.Warn("provider unavailable", logging.Jurisdiction("NSW"))

	msg, ok := root.Find("warn", "provider unavailable")
	require.True(t, ok)
	assert.Equal(t, "order", msg.Logger)
	v, ok := msg.Field("session_id")
	require.True(t, ok)
	assert.Equal(t, "s-1", v)
	v, _ = msg.Field("jurisdiction")
	assert.Equal(t, "NSW", v)
}
