// Package flywheel recovers and maintains frame and line timing lock from a
// decoded serial digital video stream. it consumes the per-tick signals of
// an upstream symbol detector and standard autodetection unit, regenerates
// the timing reference symbols, and arbitrates between received and
// internally generated timing
//
// the package is a software equivalent of the sample-synchronous pipeline of
// the original receiver: five cooperating components evaluated in dependency
// order within a single Tick() call. all cross-component communication is by
// single-tick pulses consumed on the tick they are produced. the tick is
// explicitly two-phased: all combinational signals are computed from current
// state first and all register updates are applied from them afterwards, so
// a command pulse issued on tick N affects tracker-owned state on tick N+1
package flywheel

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/testsdi/hardware/spec"
)

// Signal is the decoded per-tick input, latched in full once per enabled
// tick. one video sample per call
type Signal struct {
	// an unset enable flag holds all flywheel state for the tick, including
	// the output registers
	Enable bool

	// the raw 10-bit sample value
	Sample uint16

	// flags from the upstream symbol detector. TRSWord is asserted for each
	// of the four words of a detected marker and TRSStart for the first.
	// EAV distinguishes the marker type
	TRSWord  bool
	TRSStart bool
	EAV      bool

	// decoded content bits of the most recent marker
	Field  bool
	VBlank bool
	HBlank bool

	// the symbol detector found a protection error in the marker
	TransportError bool

	// the sample belongs to a widescreen-rate stream. consumed by the
	// autodetection unit; latched here for diagnostic output only
	WideSample bool

	// packet starts detected downstream. passed through one tick late by
	// the output register, as all outputs are
	AncStart bool
	EDHStart bool

	// the autodetection unit's standard code and lock flag
	StdLocked bool
	Std       spec.Code

	// external enables for synchronous switching and marker blanking
	EnableSwitch bool
	EnableBlank  bool
}

// Output is the registered output of the flywheel. every field takes effect
// one tick after the combinational derivation
type Output struct {
	// a generated marker word is being emitted
	TRS bool

	// the arbitrated output sample
	Sample uint16

	// regenerated timing state
	Field  bool
	VBlank bool
	HBlank bool
	HPos   int
	Line   int

	// the switch interval register. switching is declared permissible while
	// this is set
	SwitchWindow bool

	Locked bool

	// marker prediction pulses
	EAVNext bool
	SAVNext bool
	XYZ     bool

	// one-tick delayed passthrough of the packet start flags
	AncNext bool
	EDHNext bool
}

// DefaultLockRun is the number of consecutive matching markers required
// before lock is declared: two EAV/SAV pairs, the anchoring marker counting
// as the first
const DefaultLockRun = 4

type Flywheel struct {
	// number of consecutive matching markers required for lock. set at
	// creation and not changed while running
	LockRun int

	// the standard register and the geometry derived from it. loaded only
	// on the state machine's load-standard pulse
	geom spec.Geometry

	// the input stage latch
	sig Signal

	hpos horizontal
	vpos vertical
	fld  field
	sm   stateMachine
	gen  generator

	// the output register
	out Output
}

func Create(lockRun int) *Flywheel {
	if lockRun <= 0 {
		lockRun = DefaultLockRun
	}
	fw := &Flywheel{LockRun: lockRun}
	fw.Reset()
	return fw
}

// Reset forces all owned state to initial values. it models the asynchronous
// reset of the original design and can be called at any time; there are no
// partial-reset states
func (fw *Flywheel) Reset() {
	fw.geom, _ = spec.Lookup(spec.NTSC422)
	fw.sig = Signal{}
	fw.hpos.reset()
	fw.vpos.reset(fw.geom)
	fw.fld.reset()
	fw.sm.reset()
	fw.out = Output{}
}

// the received marker view of the current input latch. the two zero words of
// a marker sequence can never be mistaken for the content word because bit 9
// of the XYZ word is always set
type rxMarker struct {
	xyz bool
	eav bool
	f   bool
	v   bool
	err bool
}

func (fw *Flywheel) rx() rxMarker {
	var m rxMarker
	m.xyz = fw.sig.TRSWord && !fw.sig.TRSStart && fw.sig.Sample&0x200 == 0x200
	if !m.xyz {
		return m
	}
	m.eav = fw.sig.EAV
	m.f = fw.sig.Field
	m.v = fw.sig.VBlank
	m.err = fw.sig.TransportError
	return m
}

// Tick processes one input sample. the returned Output is the registered
// output of the previous tick's combinational derivation
func (fw *Flywheel) Tick(sig Signal) Output {
	reg := fw.out

	if !sig.Enable {
		return reg
	}

	// input stage: latch all external signals together
	fw.sig = sig

	// phase one: combinational signals from current state, evaluated in
	// dependency order
	rx := fw.rx()
	hsig := fw.hpos.signals(fw.geom)
	vsig := fw.vpos.signals(fw.geom, hsig)
	fsig := fw.fld.signals(rx)
	cmd := fw.sm.run(fw, hsig, vsig, fsig, rx)
	next := fw.gen.signals(fw, hsig, vsig, fsig)

	// phase two: apply all register updates atomically
	if cmd.ldStd {
		if g, ok := spec.Lookup(sig.Std); ok {
			fw.geom = g
		}
	}
	fw.hpos.tick(fw.geom, cmd.hClear, cmd.hResync)
	fw.vpos.tick(fw.geom, hsig, cmd)
	fw.fld.tick(rx, cmd)
	fw.sm.tick()
	fw.out = next

	return reg
}

// Locked is the current value of the lock flag
func (fw *Flywheel) Locked() bool {
	return fw.sm.locked()
}

// Standard is the current content of the standard register
func (fw *Flywheel) Standard() spec.Code {
	return fw.geom.Code
}

func (fw *Flywheel) Label() string {
	return "FLYWHEEL"
}

func (fw *Flywheel) Status() string {
	return fmt.Sprintf("%s: %s", fw.Label(), fw.sm.state)
}

func (fw *Flywheel) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s: %s (%d/%d)\n", fw.Label(), fw.sm.state, fw.sm.matches, fw.LockRun))
	s.WriteString(fmt.Sprintf("std=%s hpos=%d line=%d\n", fw.geom.ID, fw.hpos.count, fw.vpos.line))
	s.WriteString(fmt.Sprintf("field=%v vblank=%v switch=%v wide=%v",
		fw.fld.bit, fw.geom.VBlank(fw.vpos.line), fw.vpos.window, fw.sig.WideSample,
	))
	return s.String()
}
