package api

import (
	"net/http"

	"github.com/angelmondragon/plantnet-backend/pkg/config"
)

// NewServer binds handler to the configured port with the app timeouts.
func NewServer(cfg config.AppConfig, port string, handler http.Handler) *http.Server {
	if port == "" {
		port = cfg.Port
	}
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
