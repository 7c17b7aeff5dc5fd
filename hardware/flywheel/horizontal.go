package flywheel

import (
	"github.com/jetsetilly/testsdi/hardware/spec"
)

// the horizontal position tracker owns the intra-line word counter. the
// counter is free-running: it increments on every enabled tick and wraps at
// the line length of the current standard. only the state machine can reload
// it, through the clear and resync pulses
type horizontal struct {
	count int
}

// signals computed combinationally from the current counter value. word zero
// of the line is the first word of the generated EAV, so the EAV occupies
// words 0 to 3 and the SAV the last four words of the horizontal blanking
// interval
type horizontalSig struct {
	count   int
	idx     int  // word index within the generated marker (0 to 3)
	marker  bool // a generated marker is active on this tick
	eav     bool // the active marker position is an EAV (line start)
	xyz     bool // this tick is the marker's content word
	eavNext bool // an EAV begins on the next tick
	savNext bool // an SAV begins on the next tick
	hblank  bool
}

func (h *horizontal) reset() {
	h.count = 0
}

func (h *horizontal) signals(g spec.Geometry) horizontalSig {
	blank := g.BlankWords()

	s := horizontalSig{count: h.count}
	s.hblank = h.count < blank

	if h.count < 4 {
		s.marker = true
		s.eav = true
		s.idx = h.count
	} else if h.count >= blank-4 && h.count < blank {
		s.marker = true
		s.idx = h.count - (blank - 4)
	}
	s.xyz = s.marker && s.idx == 3

	s.eavNext = h.count == g.WordsPerLine-1
	s.savNext = h.count == blank-5

	// the eav flag also discriminates the marker prediction pulses. it is
	// left false outside the marker words themselves
	return s
}

// clear aligns the counter with a received EAV and resync with a received
// SAV. both pulses are issued by the state machine on the XYZ tick of the
// received marker, so the reload values are the word positions immediately
// following each marker sequence
func (h *horizontal) tick(g spec.Geometry, clear bool, resync bool) {
	if clear {
		h.count = 4
		return
	}
	if resync {
		h.count = g.BlankWords()
		return
	}
	h.count++
	if h.count >= g.WordsPerLine {
		h.count = 0
	}
}
