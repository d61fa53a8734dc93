// Command inkworker serves polygon simplification over WebSocket.
//
// Settings come from INK_* environment variables and can be overridden
// with flags. With -advertise the worker announces itself over mDNS so
// that clients can find it with compute.Browse.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/compute"
	"github.com/gogpu/ink/internal/config"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker goroutines (0 = GOMAXPROCS)")
	flag.IntVar(&cfg.QueueSize, "queue", cfg.QueueSize, "per-worker queue capacity")
	flag.BoolVar(&cfg.Advertise, "advertise", cfg.Advertise, "announce the worker over mDNS")
	flag.StringVar(&cfg.Instance, "instance", cfg.Instance, "mDNS instance name")
	flag.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	ink.SetLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("worker stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}

	handler := compute.NewHandler(
		compute.WithWorkers(cfg.Workers),
		compute.WithQueueSize(cfg.QueueSize),
	)
	defer handler.Close()

	mux := http.NewServeMux()
	mux.Handle(compute.HandlerPath, handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		mdnsServer, err := compute.Advertise(cfg.Instance, port)
		if err != nil {
			// Discovery is optional; clients can still dial the address.
			logger.Warn("mdns advertise failed", "err", err)
		} else {
			defer func() { _ = mdnsServer.Shutdown() }()
			logger.Info("advertising", "service", compute.ServiceType, "port", strconv.Itoa(port))
		}
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String(), "path", compute.HandlerPath)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
