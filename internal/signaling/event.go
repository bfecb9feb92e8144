package signaling

import "encoding/json"

// Client-to-server event names. These match the names the web client emits.
const (
	EventJoinRoom    = "join-room"
	EventSignal      = "signal"
	EventChatMessage = "chat-message"
)

// Server-to-client event names.
const (
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
)

// Envelope is the decoded view of an inbound frame. Only the fields the
// relay needs to route are declared; a "signal" frame is forwarded as the
// original bytes, so any extra fields the sender included survive untouched.
type Envelope struct {
	Event   string `json:"event"`
	RoomID  string `json:"roomId"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// userEvent is the payload of user-joined and user-left notifications.
type userEvent struct {
	Event string `json:"event"`
	Name  string `json:"name"`
}

// chatEvent is the payload broadcast for chat-message, sender included.
type chatEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

func marshalUserEvent(event, name string) []byte {
	b, _ := json.Marshal(userEvent{Event: event, Name: name})
	return b
}

func marshalChatEvent(message string) []byte {
	b, _ := json.Marshal(chatEvent{Event: EventChatMessage, Message: message})
	return b
}
