package signaling

import (
	"sync"
	"time"
)

// roomState tracks the lifecycle of a room.
type roomState int

const (
	// roomCreated: allocated via the create endpoint, nobody joined yet.
	roomCreated roomState = iota
	// roomActive: at least one participant is joined.
	roomActive
	// roomIdle: membership dropped back to zero; eligible for eviction
	// once the grace period passes.
	roomIdle
)

// participant is one membership entry. Entries are ordered by join time and
// keyed by the owning connection for removal; names are not deduplicated.
type participant struct {
	name  string
	owner *Client
}

// Room is an ephemeral group of connections bound to a booked tutoring
// session. Created empty, mutated on every join and disconnect, evicted by
// the registry janitor once it has sat empty for the grace period.
type Room struct {
	ID        string
	SessionID string

	mu           sync.Mutex
	participants []participant
	state        roomState
	createdAt    time.Time
	idleSince    time.Time
}

// Participants returns the current display names in join order. Duplicates
// are preserved: joining twice lists the name twice.
func (r *Room) Participants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.participants))
	for i, p := range r.participants {
		names[i] = p.name
	}
	return names
}

// addParticipant appends a membership entry and moves the room to active.
func (r *Room) addParticipant(name string, owner *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.participants = append(r.participants, participant{name: name, owner: owner})
	r.state = roomActive
}

// removeOwned removes every entry owned by the given connection and returns
// the removed names in join order. When membership reaches zero the room
// goes idle and the eviction clock starts.
func (r *Room) removeOwned(owner *Client, now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	kept := r.participants[:0]
	for _, p := range r.participants {
		if p.owner == owner {
			removed = append(removed, p.name)
			continue
		}
		kept = append(kept, p)
	}
	r.participants = kept

	if len(removed) > 0 && len(r.participants) == 0 {
		r.state = roomIdle
		r.idleSince = now
	}
	return removed
}

// expired reports whether the room is eligible for eviction: idle past the
// grace period, or created but never joined for the same span. The second
// clause covers callers that hit the create endpoint and never connect.
func (r *Room) expired(now time.Time, grace time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case roomIdle:
		return now.Sub(r.idleSince) >= grace
	case roomCreated:
		return now.Sub(r.createdAt) >= grace
	}
	return false
}
