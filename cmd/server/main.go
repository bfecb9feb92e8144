package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pakachere/rtc/internal/config"
	"github.com/pakachere/rtc/internal/logging"
	"github.com/pakachere/rtc/internal/server"
	"github.com/pakachere/rtc/internal/signaling"
)

var opts config.Options

// rootCmd starts the session coordinator when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "pakachere-rtc",
	Short: "Real-time session room coordinator for the Pakachere tutoring platform",
	Long: `pakachere-rtc creates ephemeral rooms bound to booked tutoring sessions
and relays WebRTC signaling and chat between the participants connected to
each room. Rooms live in memory only; media flows peer-to-peer once
negotiated and never touches this server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default \":8080\")")
	rootCmd.Flags().StringVar(&opts.AllowedOrigin, "allowed-origin", "", "restrict websocket upgrades to this Origin (default: allow all)")
	rootCmd.Flags().DurationVar(&opts.RoomGrace, "room-grace", 0, "how long an empty room survives before eviction (default 60s)")
}

func run() error {
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := signaling.NewRegistry(cfg.RoomGrace)
	go registry.Run(ctx)

	hub := signaling.NewHub(registry)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(hub, registry, cfg.AllowedOrigin),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("session coordinator listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func main() {
	logging.Init()

	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}
