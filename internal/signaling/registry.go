package signaling

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRoomGrace is how long an empty room survives before the janitor
// evicts it. Long enough to cover the gap between the create call and the
// first websocket join, and to let a participant who dropped reconnect.
const DefaultRoomGrace = 60 * time.Second

// ErrMissingSessionID is returned by Create when no session id is supplied.
var ErrMissingSessionID = errors.New("missing session_id")

// Registry owns the authoritative room -> membership mapping. It is safe
// for concurrent use: the registry lock only guards the map itself and is
// never held across room mutations, so unrelated rooms proceed in parallel.
type Registry struct {
	grace time.Duration

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry(grace time.Duration) *Registry {
	if grace <= 0 {
		grace = DefaultRoomGrace
	}
	return &Registry{
		grace: grace,
		rooms: make(map[string]*Room),
	}
}

// Create allocates a new empty room bound to the given session. Session ids
// are not checked for uniqueness: booking a room twice for the same session
// yields two rooms, and deduplication is the caller's concern. Room ids are
// random uuids and are never reused for the life of the process.
func (reg *Registry) Create(sessionID string) (*Room, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	room := &Room{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		state:     roomCreated,
		createdAt: time.Now(),
	}

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()

	slog.Info("room created", "room", room.ID, "session", sessionID)
	return room, nil
}

// Get looks up a room without mutating anything.
func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[roomID]
	return room, ok
}

// Len reports the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// AddParticipant appends a membership entry for the connection. Unknown
// room ids are ignored and reported as false; the relay treats that as a
// best-effort miss, not an error.
func (reg *Registry) AddParticipant(roomID, name string, owner *Client) bool {
	room, ok := reg.Get(roomID)
	if !ok {
		return false
	}
	room.addParticipant(name, owner)
	return true
}

// RemoveConnection drops every membership entry the connection owns in the
// given room and returns the removed names. A room emptied here is marked
// idle; actual eviction is the janitor's job.
func (reg *Registry) RemoveConnection(roomID string, owner *Client) []string {
	room, ok := reg.Get(roomID)
	if !ok {
		return nil
	}
	return room.removeOwned(owner, time.Now())
}

// Run sweeps for expired rooms until the context is cancelled. Meant to be
// started as a goroutine next to the hub.
func (reg *Registry) Run(ctx context.Context) {
	interval := reg.grace / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			reg.evictExpired(now)
		}
	}
}

func (reg *Registry) evictExpired(now time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for id, room := range reg.rooms {
		if room.expired(now, reg.grace) {
			delete(reg.rooms, id)
			slog.Info("room evicted", "room", id, "session", room.SessionID)
		}
	}
}
