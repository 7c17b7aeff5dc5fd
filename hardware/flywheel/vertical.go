package flywheel

import (
	"github.com/jetsetilly/testsdi/hardware/spec"
)

// the vertical position tracker owns the line counter and the switch
// interval register. the line counter increments on the natural line
// boundary reported by the horizontal tracker; the state machine can load it
// outright when anchoring or force an extra increment when recovering from a
// failed synchronous switch
type vertical struct {
	line   int
	window bool
}

type verticalSig struct {
	line      int
	vblank    bool
	sloppy    bool // the V bit is excluded from marker comparison on this line
	window    bool // the switch interval register
	fieldTick bool // the next EAV starts a new field
}

// reset places the counter on the first active line. vertical blanking is
// not asserted until the tracker has anchored to a received marker
func (v *vertical) reset(g spec.Geometry) {
	v.line = g.VBlankF1End + 1
	v.window = false
}

func (v *vertical) signals(g spec.Geometry, hsig horizontalSig) verticalSig {
	s := verticalSig{line: v.line, window: v.window}
	s.vblank = g.VBlank(v.line)
	s.sloppy = g.Sloppy(v.line)

	// the F bit transitions on the EAV of the lines named by the geometry
	next := v.line + 1
	if next > g.Lines {
		next = 1
	}
	s.fieldTick = hsig.eavNext && (next == g.FieldFall || next == g.FieldRise)

	return s
}

func (v *vertical) tick(g spec.Geometry, hsig horizontalSig, cmd commands) {
	// switch eligibility is decided on the line the SAV belongs to
	switchLine := g.SwitchLine(v.line)

	if cmd.vLoad {
		v.line = cmd.vLoadLine
	} else {
		if hsig.eavNext {
			v.line++
		}
		if cmd.vInc {
			v.line++
		}
		if v.line > g.Lines {
			v.line = 1
		}
	}

	// the switch interval opens with the generated SAV of an eligible line
	// and is only ever closed by the state machine's clear pulse
	if cmd.clearSwitch {
		v.window = false
	} else if switchLine && hsig.savNext {
		v.window = true
	}
}
