package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/upb/course-platform/backend/config"
)

func TestNewServer(t *testing.T) {
	cfg := config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         8000,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 7 * time.Second,
	}
	handler := http.NotFoundHandler()

	srv := newServer(cfg, handler)

	assert.Equal(t, "127.0.0.1:8000", srv.Addr)
	assert.Equal(t, 3*time.Second, srv.ReadTimeout)
	assert.Equal(t, 3*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 7*time.Second, srv.WriteTimeout)
	assert.NotNil(t, srv.Handler)
}
