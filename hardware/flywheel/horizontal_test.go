package flywheel

import (
	"testing"

	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/hardware/trs"
	"github.com/jetsetilly/testsdi/test"
)

func TestHorizontalFreeRun(t *testing.T) {
	g, _ := spec.Lookup(spec.NTSC422)
	blank := g.BlankWords()

	var h horizontal
	h.reset()

	for i := 0; i < 2*g.WordsPerLine; i++ {
		count := i % g.WordsPerLine
		s := h.signals(g)

		test.ExpectEquality(t, s.count, count)
		test.ExpectEquality(t, s.hblank, count < blank)
		test.ExpectEquality(t, s.marker, count < 4 || (count >= blank-4 && count < blank))
		test.ExpectEquality(t, s.eav, count < 4)
		test.ExpectEquality(t, s.xyz, count == 3 || count == blank-1)
		test.ExpectEquality(t, s.eavNext, count == g.WordsPerLine-1)
		test.ExpectEquality(t, s.savNext, count == blank-5)

		h.tick(g, false, false)
	}
}

func TestHorizontalReload(t *testing.T) {
	g, _ := spec.Lookup(spec.PAL422)

	var h horizontal
	h.reset()
	h.count = 1000

	// clear aligns with a received EAV content word
	h.tick(g, true, false)
	test.ExpectEquality(t, h.count, 4)

	// resync aligns with a received SAV content word
	h.count = 1000
	h.tick(g, false, true)
	test.ExpectEquality(t, h.count, g.BlankWords())
}

func TestVerticalWindow(t *testing.T) {
	g, _ := spec.Lookup(spec.NTSC422)

	var v vertical
	v.reset(g)
	v.line = g.SwitchLines[0]

	// the window opens on the SAV prediction pulse of a switch line
	v.tick(g, horizontalSig{savNext: true}, commands{})
	test.ExpectSuccess(t, v.window)

	// and is held across the line boundary
	v.tick(g, horizontalSig{eavNext: true}, commands{})
	test.ExpectSuccess(t, v.window)
	test.ExpectEquality(t, v.line, g.SwitchLines[0]+1)

	// only the state machine's clear pulse closes it
	v.tick(g, horizontalSig{}, commands{clearSwitch: true})
	test.ExpectFailure(t, v.window)
}

func TestVerticalWrap(t *testing.T) {
	g, _ := spec.Lookup(spec.PAL422)

	var v vertical
	v.reset(g)
	v.line = g.Lines

	v.tick(g, horizontalSig{eavNext: true}, commands{})
	test.ExpectEquality(t, v.line, 1)
}

func TestFieldTracker(t *testing.T) {
	var f field
	f.reset()

	// the bit is loaded from the received marker
	f.tick(rxMarker{xyz: true, f: true}, commands{fLoad: true})
	test.ExpectSuccess(t, f.bit)

	// and toggled on the advance pulse
	f.tick(rxMarker{}, commands{fAdvance: true})
	test.ExpectFailure(t, f.bit)

	// the received field bit is tracked independently of the register
	s := f.signals(rxMarker{xyz: true, f: false})
	test.ExpectSuccess(t, s.rxChanged)
}

func TestSearchingFieldRefinement(t *testing.T) {
	g, _ := spec.Lookup(spec.NTSC422)

	fw := Create(0)
	fw.sm.state = stateSearching
	fw.sm.matches = 1
	fw.sig = Signal{
		Enable:    true,
		StdLocked: true,
		Std:       spec.NTSC422,
		Sample:    trs.XYZ(spec.NTSC422, false, true, true),
	}

	// a matching EAV carrying a genuine received field transition pins the
	// line counter to the field boundary
	hsig := horizontalSig{marker: true, eav: true, xyz: true, idx: 3}
	vsig := verticalSig{line: 2, vblank: true}
	fsig := fieldSig{bit: false, rxChanged: true}
	rx := rxMarker{xyz: true, eav: true, f: false, v: true}

	cmd := fw.sm.run(fw, hsig, vsig, fsig, rx)
	test.ExpectSuccess(t, cmd.vLoad)
	test.ExpectEquality(t, cmd.vLoadLine, g.FieldFall)
}
