package spec_test

import (
	"testing"

	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/test"
)

var valid = []spec.Code{
	spec.NTSC422, spec.NTSC422Wide, spec.NTSC4444,
	spec.PAL422, spec.PAL422Wide, spec.PAL4444,
}

func TestLookup(t *testing.T) {
	for _, c := range valid {
		g, ok := spec.Lookup(c)
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, g.Code, c)
	}

	_, ok := spec.Lookup(spec.NTSCInvalid)
	test.ExpectFailure(t, ok)
	_, ok = spec.Lookup(spec.PALInvalid)
	test.ExpectFailure(t, ok)
	_, ok = spec.Lookup(spec.Code(0x08))
	test.ExpectFailure(t, ok)
}

func TestGeometry(t *testing.T) {
	for _, c := range valid {
		g, _ := spec.Lookup(c)

		// the marker word index relies on the blanking interval being a
		// multiple of the marker length
		test.ExpectEquality(t, g.BlankWords()%4, 0)

		// room for both markers plus at least one word of blanking
		test.ExpectSuccess(t, g.BlankWords() > 8)

		test.ExpectEquality(t, g.WordsPerLine%g.WordsPerSample, 0)
		test.ExpectEquality(t, g.ActiveWords%g.WordsPerSample, 0)

		// the frame rate must follow exactly from the word clock
		if c.NTSC() {
			test.ExpectEquality(t, g.Lines, 525)
			test.ExpectEquality(t, g.FrameHz, 30000.0/1001.0)
		} else {
			test.ExpectEquality(t, g.Lines, 625)
			test.ExpectEquality(t, g.FrameHz, 25.0)
		}
	}
}

func TestVerticalTiming(t *testing.T) {
	ntsc, _ := spec.Lookup(spec.NTSC422)

	for _, ln := range []int{1, 19, 264, 282} {
		test.ExpectSuccess(t, ntsc.VBlank(ln))
	}
	for _, ln := range []int{20, 100, 263, 283, 525} {
		test.ExpectFailure(t, ntsc.VBlank(ln))
	}

	// the F bit is high for the last three lines of field two and the first
	// three lines of the frame
	for _, ln := range []int{1, 3, 266, 525} {
		test.ExpectSuccess(t, ntsc.Field(ln))
	}
	for _, ln := range []int{4, 265} {
		test.ExpectFailure(t, ntsc.Field(ln))
	}

	pal, _ := spec.Lookup(spec.PAL422)

	for _, ln := range []int{1, 22, 311, 335, 624, 625} {
		test.ExpectSuccess(t, pal.VBlank(ln))
	}
	for _, ln := range []int{23, 310, 336, 623} {
		test.ExpectFailure(t, pal.VBlank(ln))
	}

	for _, ln := range []int{313, 625} {
		test.ExpectSuccess(t, pal.Field(ln))
	}
	for _, ln := range []int{1, 312} {
		test.ExpectFailure(t, pal.Field(ln))
	}
}

// every anchor line must carry the F and V bits it is selected by, otherwise
// the state machine would re-anchor forever
func TestAnchor(t *testing.T) {
	for _, c := range valid {
		g, _ := spec.Lookup(c)
		for _, f := range []bool{false, true} {
			for _, v := range []bool{false, true} {
				ln := g.Anchor(f, v)
				test.ExpectEquality(t, g.Field(ln), f)
				test.ExpectEquality(t, g.VBlank(ln), v)
			}
		}
	}
}

func TestSloppyAndSwitch(t *testing.T) {
	for _, c := range valid {
		g, _ := spec.Lookup(c)

		// switch lines sit inside vertical blanking
		for _, ln := range g.SwitchLines {
			test.ExpectSuccess(t, g.VBlank(ln))
		}

		// the sloppy ranges end on the exact V fall lines
		test.ExpectEquality(t, g.SloppyV[0][1], g.VFall[0])
		test.ExpectEquality(t, g.SloppyV[1][1], g.VFall[1])
	}
}
