package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pakachere/rtc/internal/signaling"
)

// NewRouter wires the coordinator's HTTP surface: room creation, the
// websocket endpoint, and the health/stats probes.
func NewRouter(hub *signaling.Hub, registry *signaling.Registry, allowedOrigin string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", createRoom(registry))
	mux.HandleFunc("GET /ws", ServeWs(hub, allowedOrigin))
	mux.HandleFunc("GET /health", healthCheck)
	mux.HandleFunc("GET /stats", stats(hub))
	return mux
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Session coordinator is healthy."))
}

// createRoom allocates a room for a booked session. The session id is taken
// on trust; validating it against the booking system is not this service's
// job.
func createRoom(registry *signaling.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID string `json:"session_id"`
		}
		// A missing or malformed body degrades to an empty session id and
		// the same validation error.
		_ = json.NewDecoder(r.Body).Decode(&req)

		room, err := registry.Create(req.SessionID)
		if err != nil {
			if errors.Is(err, signaling.ErrMissingSessionID) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing session_id"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "room creation failed"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"room_id": room.ID})
	}
}

func stats(hub *signaling.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, hub.Stats())
	}
}

// ServeWs upgrades the connection and hands it to the hub. With no
// configured origin every origin is accepted, matching the permissive
// posture the web client relies on in development.
func ServeWs(hub *signaling.Hub, allowedOrigin string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}

		client := signaling.NewClient(hub, conn)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}
