// Package source synthesizes the decoded per-tick signals that the upstream
// symbol detector and standard autodetection unit would present to the
// flywheel. it stands in for the deserializer, which is external to the
// flywheel proper, and exists so the rest of the harness has a conformant
// stream to work against
//
// the source can also damage its own stream in controlled ways: corrupted
// marker words, early V bit transitions, muted markers and misphased
// switches. these are the fault classes the flywheel is expected to ride out
package source

import (
	"fmt"

	"github.com/jetsetilly/testsdi/hardware/flywheel"
	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/hardware/trs"
)

type Source struct {
	geom spec.Geometry
	code spec.Code

	// current stream position
	line  int
	count int

	// enables presented to the flywheel with every tick
	Switching bool
	Blanking  bool

	// the standard detector's lock flag. can be cleared to model the
	// detector hunting
	StdLocked bool

	// fault injection state. all of these decay back to the clean stream
	corrupt      int
	mute         int
	earlyVFall   int
	switchGlitch bool
	switchJump   int
}

func Create(code spec.Code) (*Source, error) {
	g, ok := spec.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("source: not a valid standard (%s)", code)
	}

	src := &Source{
		geom:      g,
		code:      code,
		Switching: true,
		Blanking:  true,
		StdLocked: true,
	}
	src.Reset()

	return src, nil
}

func (src *Source) Reset() {
	src.line = 1
	src.count = 0
	src.corrupt = 0
	src.mute = 0
	src.earlyVFall = 0
	src.switchGlitch = false
	src.switchJump = 0
}

func (src *Source) Label() string {
	return "SOURCE"
}

func (src *Source) Status() string {
	return fmt.Sprintf("%s: %s line=%d hpos=%d", src.Label(), src.geom.ID, src.line, src.count)
}

// CorruptMarkers flags a transport error on the next n marker content words,
// damaging a protection bit as the detector would have seen
func (src *Source) CorruptMarkers(n int) {
	src.corrupt = n
}

// Mute suppresses the marker flags for the next n ticks. samples fall to
// blanking level for the duration
func (src *Source) Mute(n int) {
	src.mute = n
}

// EarlyVFall moves the field one V bit transition forward to the given line.
// the fault persists until cancelled with a zero line
func (src *Source) EarlyVFall(ln int) {
	src.earlyVFall = ln
}

// SwitchGlitch alters the content of the EAV terminating the next switch
// window. the altered XYZ word remains internally valid so the fault models
// a cleanly switched but differently-timed upstream source
func (src *Source) SwitchGlitch() {
	src.switchGlitch = true
}

// SwitchJump shifts the stream phase by the given number of words at the SAV
// of the next switch line, as a real synchronous switch between two
// misphased sources would
func (src *Source) SwitchJump(words int) {
	src.switchJump = words
}

// the V bit for a line, accounting for an injected early transition
func (src *Source) vbit(ln int) bool {
	v := src.geom.VBlank(ln)
	if src.earlyVFall > 0 && ln >= src.earlyVFall && ln < src.geom.VFall[0] {
		v = false
	}
	return v
}

// error detection packets sit on the lines recommended by SMPTE RP 165
func (src *Source) edhLine(ln int) bool {
	if src.code.NTSC() {
		return ln == 9 || ln == 272
	}
	return ln == 5 || ln == 318
}

// Signal produces the decoded signals for the current stream position and
// advances to the next. one video sample per call
func (src *Source) Signal() flywheel.Signal {
	g := src.geom
	blank := g.BlankWords()

	sig := flywheel.Signal{
		Enable:       true,
		StdLocked:    src.StdLocked,
		Std:          src.code,
		EnableSwitch: src.Switching,
		EnableBlank:  src.Blanking,
		Field:        g.Field(src.line),
		VBlank:       src.vbit(src.line),
		HBlank:       src.count < blank,
	}

	eav := src.count < 4
	sav := src.count >= blank-4 && src.count < blank
	idx := src.count
	if sav {
		idx = src.count - (blank - 4)
	}

	switch {
	case (eav || sav) && src.mute == 0:
		sig.TRSWord = true
		sig.TRSStart = idx == 0
		sig.EAV = eav
		switch idx {
		case 0:
			sig.Sample = trs.First
		case 1:
			sig.Sample = trs.Second
		case 2:
			sig.Sample = trs.Third
		default:
			v := sig.VBlank
			if src.switchGlitch && eav && g.SwitchLine(src.line-1) {
				// the glitched EAV belongs to the line after the switch
				// line. flip the V bit but keep the word valid
				v = !v
				sig.VBlank = v
				src.switchGlitch = false
			}
			sig.Sample = trs.XYZ(src.code, sig.Field, v, eav)
			if src.corrupt > 0 {
				sig.Sample ^= 0x004
				sig.TransportError = true
				src.corrupt--
			}
		}

	case src.count < blank || src.mute > 0:
		sig.Sample = trs.Blank(src.code, src.count)

	default:
		// a shallow luminance ramp across the active line with the colour
		// difference channels at blanking level. enough of a picture for
		// the harness display to be meaningful
		active := src.count - blank
		if src.luma(active) {
			sig.Sample = uint16(0x040 + (active*0x300)/g.ActiveWords)
		} else {
			sig.Sample = trs.BlankChroma
		}
	}

	// packet start flags for the downstream handlers. asserted on the first
	// word following the SAV of the carrying line
	if src.count == blank && src.mute == 0 {
		sig.EDHStart = src.edhLine(src.line)
		sig.AncStart = sig.VBlank && !sig.EDHStart
	}

	if src.mute > 0 {
		src.mute--
	}

	src.advance()

	return sig
}

// luma reports whether the active word at the given offset carries the
// luminance channel
func (src *Source) luma(active int) bool {
	if src.code.S4444() {
		return active&0x03 == 0x01
	}
	return active&0x01 == 0x01
}

func (src *Source) advance() {
	step := 1

	// a pending switch jump is applied at the SAV content word of a switch
	// line
	if src.switchJump != 0 && src.geom.SwitchLine(src.line) && src.count == src.geom.BlankWords()-1 {
		step += src.switchJump
		src.switchJump = 0
	}

	src.count += step
	for src.count >= src.geom.WordsPerLine {
		src.count -= src.geom.WordsPerLine
		src.line++
		if src.line > src.geom.Lines {
			src.line = 1
		}
	}
}
