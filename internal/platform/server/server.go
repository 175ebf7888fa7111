package server

import (
	"net/http"
	"time"

	"image-pipeline/internal/config"
)

func New(port string, handler http.Handler, cfg *config.ServerConfig) *http.Server {
	readTimeout := 15 * time.Second
	writeTimeout := 30 * time.Second
	idleTimeout := 60 * time.Second
	if cfg != nil {
		readTimeout = cfg.ReadTimeout
		writeTimeout = cfg.WriteTimeout
		idleTimeout = cfg.IdleTimeout
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}
