package config

import (
	"fmt"
	"os"
	"time"
)

// Default configuration values.
const (
	DefaultAddr      = ":8080"
	DefaultRoomGrace = 60 * time.Second
)

// Config holds the coordinator's runtime configuration.
type Config struct {
	// Addr is the listen address for the HTTP/websocket server.
	Addr string

	// AllowedOrigin restricts websocket upgrades to one Origin header
	// value. Empty allows every origin.
	AllowedOrigin string

	// RoomGrace is how long an empty room survives before eviction.
	RoomGrace time.Duration
}

// Options carries CLI flag overrides into Load.
type Options struct {
	Addr          string
	AllowedOrigin string
	RoomGrace     time.Duration
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. Hardcoded defaults - lowest priority
func Load(opts Options) (*Config, error) {
	addr := opts.Addr
	if addr == "" {
		addr = os.Getenv("ADDR")
	}
	if addr == "" {
		addr = DefaultAddr
	}

	origin := opts.AllowedOrigin
	if origin == "" {
		origin = os.Getenv("ALLOWED_ORIGIN")
	}

	grace := opts.RoomGrace
	if grace == 0 {
		if v := os.Getenv("ROOM_GRACE"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("invalid ROOM_GRACE %q: %w", v, err)
			}
			grace = d
		}
	}
	if grace == 0 {
		grace = DefaultRoomGrace
	}
	if grace < 0 {
		return nil, fmt.Errorf("room grace must be positive, got %s", grace)
	}

	return &Config{
		Addr:          addr,
		AllowedOrigin: origin,
		RoomGrace:     grace,
	}, nil
}
