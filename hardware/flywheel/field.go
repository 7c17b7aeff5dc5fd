package flywheel

// the field tracker owns the field parity bit. the bit is loaded from the
// received stream when the state machine anchors and toggled on the normal
// frame boundary while locked
//
// the tracker also remembers the most recently observed received field bit.
// the change pulse derived from it, not the internal register, is how the
// state machine spots genuine field transitions in the incoming stream,
// independent of lock state
type field struct {
	bit    bool
	rx     bool
	rxSeen bool
}

type fieldSig struct {
	bit       bool
	rxChanged bool
}

func (f *field) reset() {
	f.bit = false
	f.rx = false
	f.rxSeen = false
}

func (f *field) signals(rx rxMarker) fieldSig {
	s := fieldSig{bit: f.bit}
	s.rxChanged = rx.xyz && f.rxSeen && rx.f != f.rx
	return s
}

func (f *field) tick(rx rxMarker, cmd commands) {
	if cmd.fLoad {
		f.bit = rx.f
	} else if cmd.fAdvance {
		f.bit = !f.bit
	}

	if rx.xyz {
		f.rx = rx.f
		f.rxSeen = true
	}
}
