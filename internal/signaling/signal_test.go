package signaling

import (
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestClassifySignalOffer(t *testing.T) {
	s := ClassifySignal([]byte(`{"event":"signal","roomId":"r1","type":"offer","sdp":"v=0..."}`))
	if s.Kind != SignalOffer {
		t.Fatalf("kind = %s, want offer", s.Kind)
	}
	if s.Description == nil || s.Description.Type != webrtc.SDPTypeOffer || s.Description.SDP != "v=0..." {
		t.Fatalf("description = %+v", s.Description)
	}
}

func TestClassifySignalAnswer(t *testing.T) {
	s := ClassifySignal([]byte(`{"type":"answer","sdp":"v=0..."}`))
	if s.Kind != SignalAnswer {
		t.Fatalf("kind = %s, want answer", s.Kind)
	}
}

func TestClassifySignalCandidateObject(t *testing.T) {
	s := ClassifySignal([]byte(`{"candidate":{"candidate":"candidate:1 1 UDP 123 10.0.0.1 5000 typ host","sdpMid":"0"}}`))
	if s.Kind != SignalCandidate {
		t.Fatalf("kind = %s, want candidate", s.Kind)
	}
	if s.Candidate == nil || s.Candidate.Candidate == "" {
		t.Fatalf("candidate = %+v", s.Candidate)
	}
}

func TestClassifySignalCandidateString(t *testing.T) {
	s := ClassifySignal([]byte(`{"candidate":"candidate:1 1 UDP 123 10.0.0.1 5000 typ host"}`))
	if s.Kind != SignalCandidate {
		t.Fatalf("kind = %s, want candidate", s.Kind)
	}
}

func TestClassifySignalOpaque(t *testing.T) {
	for _, raw := range []string{
		`{"event":"signal","roomId":"r1","blob":"anything"}`,
		`{"type":"rollback","sdp":"v=0..."}`,
		`not json at all`,
		`{"candidate":null}`,
	} {
		if s := ClassifySignal([]byte(raw)); s.Kind != SignalOpaque {
			t.Fatalf("ClassifySignal(%q).Kind = %s, want opaque", raw, s.Kind)
		}
	}
}
