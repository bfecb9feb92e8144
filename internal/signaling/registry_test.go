package signaling

import (
	"errors"
	"testing"
	"time"
)

func TestCreateReturnsUniqueRoomIDs(t *testing.T) {
	reg := NewRegistry(time.Minute)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		room, err := reg.Create("sess-1")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[room.ID] {
			t.Fatalf("room id %q returned twice", room.ID)
		}
		seen[room.ID] = true
	}

	if reg.Len() != 100 {
		t.Fatalf("expected 100 rooms, got %d", reg.Len())
	}
}

func TestCreateRequiresSessionID(t *testing.T) {
	reg := NewRegistry(time.Minute)

	if _, err := reg.Create(""); !errors.Is(err, ErrMissingSessionID) {
		t.Fatalf("expected ErrMissingSessionID, got %v", err)
	}
}

func TestCreateBindsSessionWithoutDeduplication(t *testing.T) {
	reg := NewRegistry(time.Minute)

	a, _ := reg.Create("sess-1")
	b, _ := reg.Create("sess-1")
	if a.ID == b.ID {
		t.Fatal("two creates for one session must yield two rooms")
	}
	if a.SessionID != "sess-1" || b.SessionID != "sess-1" {
		t.Fatalf("session binding lost: %q, %q", a.SessionID, b.SessionID)
	}
}

func TestAddParticipantUnknownRoomIsIgnored(t *testing.T) {
	reg := NewRegistry(time.Minute)

	if reg.AddParticipant("no-such-room", "Alice", &Client{}) {
		t.Fatal("AddParticipant reported success for unknown room")
	}
}

func TestMembershipKeepsJoinOrderAndDuplicates(t *testing.T) {
	reg := NewRegistry(time.Minute)
	room, _ := reg.Create("sess-1")

	alice := &Client{}
	bob := &Client{}
	reg.AddParticipant(room.ID, "Alice", alice)
	reg.AddParticipant(room.ID, "Bob", bob)
	// Repeating the exact same join appends again; names are not deduped.
	reg.AddParticipant(room.ID, "Alice", alice)

	got := room.Participants()
	want := []string{"Alice", "Bob", "Alice"}
	if len(got) != len(want) {
		t.Fatalf("participants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("participants = %v, want %v", got, want)
		}
	}
}

func TestRemoveConnectionDropsEveryOwnedEntry(t *testing.T) {
	reg := NewRegistry(time.Minute)
	room, _ := reg.Create("sess-1")

	alice := &Client{}
	bob := &Client{}
	reg.AddParticipant(room.ID, "Alice", alice)
	reg.AddParticipant(room.ID, "Alice", alice)
	reg.AddParticipant(room.ID, "Bob", bob)

	removed := reg.RemoveConnection(room.ID, alice)
	if len(removed) != 2 || removed[0] != "Alice" || removed[1] != "Alice" {
		t.Fatalf("removed = %v, want [Alice Alice]", removed)
	}

	got := room.Participants()
	if len(got) != 1 || got[0] != "Bob" {
		t.Fatalf("participants = %v, want [Bob]", got)
	}
}

func TestEmptyRoomEvictedAfterGrace(t *testing.T) {
	grace := time.Minute
	reg := NewRegistry(grace)
	room, _ := reg.Create("sess-1")

	c := &Client{}
	reg.AddParticipant(room.ID, "Alice", c)
	reg.RemoveConnection(room.ID, c)

	// Inside the grace window the room survives, so a participant who
	// dropped can rejoin the same room id.
	reg.evictExpired(time.Now().Add(grace / 2))
	if _, ok := reg.Get(room.ID); !ok {
		t.Fatal("room evicted before grace period elapsed")
	}

	reg.evictExpired(time.Now().Add(2 * grace))
	if _, ok := reg.Get(room.ID); ok {
		t.Fatal("idle room survived past grace period")
	}
}

func TestNeverJoinedRoomEvictedAfterGrace(t *testing.T) {
	grace := time.Minute
	reg := NewRegistry(grace)
	room, _ := reg.Create("sess-1")

	reg.evictExpired(time.Now().Add(grace / 2))
	if _, ok := reg.Get(room.ID); !ok {
		t.Fatal("fresh room evicted before grace period elapsed")
	}

	reg.evictExpired(time.Now().Add(2 * grace))
	if _, ok := reg.Get(room.ID); ok {
		t.Fatal("never-joined room survived past grace period")
	}
}

func TestActiveRoomNotEvicted(t *testing.T) {
	grace := time.Minute
	reg := NewRegistry(grace)
	room, _ := reg.Create("sess-1")
	reg.AddParticipant(room.ID, "Alice", &Client{})

	reg.evictExpired(time.Now().Add(24 * time.Hour))
	if _, ok := reg.Get(room.ID); !ok {
		t.Fatal("active room was evicted")
	}
}
