package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/config"
	"github.com/turtacn/titleorder/internal/testutil"
)

func TestServer_ServeAndStop(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	logger := testutil.NewMockLogger()
	srv := NewServer(config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}, handler, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, srv.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, logger.HasMessage("info", "HTTP server stopped"))
}

func TestServer_StartReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: port}, http.NotFoundHandler(), nil)
	assert.Error(t, srv.Start())
}

func TestNewServer_DefaultShutdownTimeout(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 8080}, http.NotFoundHandler(), nil)
	assert.Equal(t, defaultShutdownTimeout, srv.shutdownTimeout)
	assert.Equal(t, ":8080", srv.srv.Addr)
	assert.NotNil(t, srv.Handler())
}
