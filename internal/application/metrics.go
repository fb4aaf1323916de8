package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luluche1/rticonnextdds-getting-started/internal/config"
)

// MetricsHandler serves g on path and a liveness probe on /healthz.
func MetricsHandler(g prometheus.Gatherer, path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// startMetricsServer listens on cfg.ListenAddr and returns the bound address
// and a function that shuts the server down.
func startMetricsServer(cfg config.MetricsConfig, g prometheus.Gatherer, logger *slog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return "", nil, fmt.Errorf("metrics listen %s: %w", cfg.ListenAddr, err)
	}
	srv := &http.Server{
		Handler:           MetricsHandler(g, cfg.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server exited", "error", err)
		}
	}()
	addr := ln.Addr().String()
	logger.Info("metrics endpoint listening", "addr", addr, "path", cfg.Path)

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return addr, stop, nil
}
