package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/plantnet-backend/pkg/config"
)

func TestNewServerUsesAppTimeouts(t *testing.T) {
	cfg := config.AppConfig{
		Port:         "5000",
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 3 * time.Second,
		IdleTimeout:  4 * time.Second,
	}
	srv := NewServer(cfg, "", http.NotFoundHandler())
	if srv.Addr != ":5000" {
		t.Fatalf("unexpected addr %q", srv.Addr)
	}
	if srv.ReadTimeout != 2*time.Second || srv.WriteTimeout != 3*time.Second || srv.IdleTimeout != 4*time.Second {
		t.Fatalf("timeouts not applied: %+v", srv)
	}

	if got := NewServer(cfg, "8080", http.NotFoundHandler()).Addr; got != ":8080" {
		t.Fatalf("explicit port ignored, got %q", got)
	}
}
