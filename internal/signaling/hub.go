package signaling

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Hub is the relay between connected clients. It owns the transport-level
// grouping (which connections receive a room's broadcasts) and routes every
// inbound event; membership bookkeeping lives in the Registry.
//
// The hub lock only guards the group map and is held just long enough to
// mutate it or snapshot one room's recipients. Room membership has its own
// per-room lock, so traffic in unrelated rooms never serializes here.
type Hub struct {
	registry *Registry

	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}

	connections  atomic.Int64
	unknownRooms atomic.Uint64
	dropped      atomic.Uint64
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		groups:   make(map[string]map[*Client]struct{}),
	}
}

// Register counts a freshly upgraded connection. The client is not in any
// room until it sends a join-room event.
func (h *Hub) Register(c *Client) {
	h.connections.Add(1)
	slog.Debug("client connected", "remote", c.remoteAddr())
}

// HandleEvent routes one inbound frame from a client. It runs on the
// client's read goroutine, so events from a single connection are processed
// in the order they were sent.
func (h *Hub) HandleEvent(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Warn("malformed frame dropped", "remote", c.remoteAddr(), "err", err)
		return
	}

	switch env.Event {
	case EventJoinRoom:
		h.handleJoin(c, env)
	case EventSignal:
		h.handleSignal(c, env, raw)
	case EventChatMessage:
		h.handleChat(c, env)
	default:
		slog.Warn("unknown event dropped", "event", env.Event, "remote", c.remoteAddr())
	}
}

// handleJoin associates the connection with the room group, records
// membership, and tells everyone already there. Joining a room id the
// registry has never issued still succeeds at the group level: the create
// call and the join race in practice, so the relay stays permissive and
// just counts the miss.
func (h *Hub) handleJoin(c *Client, env Envelope) {
	if env.RoomID == "" {
		slog.Warn("join without room id dropped", "remote", c.remoteAddr())
		return
	}

	// A connection belongs to at most one room; joining another moves it.
	if c.roomID != "" && c.roomID != env.RoomID {
		h.leaveRoom(c)
	}

	h.mu.Lock()
	group, ok := h.groups[env.RoomID]
	if !ok {
		group = make(map[*Client]struct{})
		h.groups[env.RoomID] = group
	}
	group[c] = struct{}{}
	h.mu.Unlock()

	c.roomID = env.RoomID
	c.name = env.Name

	if !h.registry.AddParticipant(env.RoomID, env.Name, c) {
		h.unknownRooms.Add(1)
		slog.Warn("join for unknown room", "room", env.RoomID, "name", env.Name)
	}

	h.broadcast(env.RoomID, marshalUserEvent(EventUserJoined, env.Name), c)
	slog.Info("participant joined", "room", env.RoomID, "name", env.Name)
}

// handleSignal forwards the original frame, untouched, to everyone else in
// the room. The payload is classified for the log line only; routing never
// depends on what the frame carries.
func (h *Hub) handleSignal(c *Client, env Envelope, raw []byte) {
	if !h.roomKnown(env.RoomID) {
		h.unknownRooms.Add(1)
		slog.Warn("signal for unknown room", "room", env.RoomID)
	}
	slog.Debug("relaying signal",
		"room", env.RoomID, "kind", ClassifySignal(raw).Kind.String())
	h.broadcast(env.RoomID, raw, c)
}

// handleChat rebroadcasts a chat message to the whole room. The sender is
// included so its UI reflects the send through the same path as everyone
// else's.
func (h *Hub) handleChat(c *Client, env Envelope) {
	if !h.roomKnown(env.RoomID) {
		h.unknownRooms.Add(1)
		slog.Warn("chat for unknown room", "room", env.RoomID)
	}
	h.broadcast(env.RoomID, marshalChatEvent(env.Message), nil)
}

// HandleDisconnect cleans up after a connection terminates: the connection
// leaves its group, its membership entries are removed, and the rest of the
// room hears user-left for each removed name.
func (h *Hub) HandleDisconnect(c *Client) {
	h.leaveRoom(c)
	h.connections.Add(-1)
	slog.Debug("client disconnected", "remote", c.remoteAddr(), "name", c.name)
}

func (h *Hub) leaveRoom(c *Client) {
	roomID := c.roomID
	if roomID == "" {
		return
	}
	c.roomID = ""

	h.mu.Lock()
	if group, ok := h.groups[roomID]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(h.groups, roomID)
		}
	}
	h.mu.Unlock()

	for _, name := range h.registry.RemoveConnection(roomID, c) {
		h.broadcast(roomID, marshalUserEvent(EventUserLeft, name), c)
		slog.Info("participant left", "room", roomID, "name", name)
	}
}

// broadcast sends data to every connection grouped under roomID, except the
// excluded one. Sends never block: a recipient whose buffer is full is
// skipped so one stalled connection cannot hold up the rest of the room.
func (h *Hub) broadcast(roomID string, data []byte, except *Client) {
	h.mu.RLock()
	group := h.groups[roomID]
	recipients := make([]*Client, 0, len(group))
	for c := range group {
		if c != except {
			recipients = append(recipients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range recipients {
		select {
		case c.Send <- data:
		default:
			h.dropped.Add(1)
			slog.Warn("delivery dropped, send buffer full",
				"room", roomID, "remote", c.remoteAddr())
		}
	}
}

func (h *Hub) roomKnown(roomID string) bool {
	_, ok := h.registry.Get(roomID)
	return ok
}

// Stats is a point-in-time snapshot of relay counters.
type Stats struct {
	Rooms             int    `json:"rooms"`
	Connections       int64  `json:"connections"`
	UnknownRoomEvents uint64 `json:"unknown_room_events"`
	DroppedDeliveries uint64 `json:"dropped_deliveries"`
}

func (h *Hub) Stats() Stats {
	return Stats{
		Rooms:             h.registry.Len(),
		Connections:       h.connections.Load(),
		UnknownRoomEvents: h.unknownRooms.Load(),
		DroppedDeliveries: h.dropped.Load(),
	}
}
