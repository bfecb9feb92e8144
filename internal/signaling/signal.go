package signaling

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
)

// SignalKind identifies what a signaling frame carries. The relay never
// routes on this; it exists for logging and for clients of the package that
// want a typed view of the negotiation traffic.
type SignalKind int

const (
	// SignalOpaque is anything the classifier does not recognize. Opaque
	// frames are still relayed verbatim.
	SignalOpaque SignalKind = iota
	SignalOffer
	SignalAnswer
	SignalCandidate
)

func (k SignalKind) String() string {
	switch k {
	case SignalOffer:
		return "offer"
	case SignalAnswer:
		return "answer"
	case SignalCandidate:
		return "candidate"
	default:
		return "opaque"
	}
}

// Signal is the typed view of a classified frame. Exactly one of
// Description and Candidate is set unless Kind is SignalOpaque.
type Signal struct {
	Kind        SignalKind
	Description *webrtc.SessionDescription
	Candidate   *webrtc.ICECandidateInit
}

// ClassifySignal inspects a raw signal frame and reports what it carries.
// Unparseable or unrecognized frames degrade to SignalOpaque rather than
// erroring, since the relay contract is to forward regardless.
func ClassifySignal(raw []byte) Signal {
	var frame struct {
		Type      string          `json:"type"`
		SDP       string          `json:"sdp"`
		Candidate json.RawMessage `json:"candidate"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Signal{Kind: SignalOpaque}
	}

	if frame.SDP != "" {
		switch t := webrtc.NewSDPType(frame.Type); t {
		case webrtc.SDPTypeOffer:
			return Signal{
				Kind:        SignalOffer,
				Description: &webrtc.SessionDescription{Type: t, SDP: frame.SDP},
			}
		case webrtc.SDPTypeAnswer:
			return Signal{
				Kind:        SignalAnswer,
				Description: &webrtc.SessionDescription{Type: t, SDP: frame.SDP},
			}
		}
		return Signal{Kind: SignalOpaque}
	}

	if len(frame.Candidate) > 0 {
		// Browsers send the candidate either as an object or a bare string.
		var init webrtc.ICECandidateInit
		if err := json.Unmarshal(frame.Candidate, &init); err == nil && init.Candidate != "" {
			return Signal{Kind: SignalCandidate, Candidate: &init}
		}
		var s string
		if err := json.Unmarshal(frame.Candidate, &s); err == nil && s != "" {
			return Signal{Kind: SignalCandidate, Candidate: &webrtc.ICECandidateInit{Candidate: s}}
		}
	}

	return Signal{Kind: SignalOpaque}
}
