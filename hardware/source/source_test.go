package source_test

import (
	"testing"

	"github.com/jetsetilly/testsdi/hardware/source"
	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/hardware/trs"
	"github.com/jetsetilly/testsdi/test"
)

func TestCreate(t *testing.T) {
	_, err := source.Create(spec.NTSC422)
	test.ExpectSuccess(t, err)

	_, err = source.Create(spec.NTSCInvalid)
	test.ExpectFailure(t, err)
}

func TestStream(t *testing.T) {
	src, err := source.Create(spec.NTSC422)
	test.ExpectSuccess(t, err)

	g, _ := spec.Lookup(spec.NTSC422)
	blank := g.BlankWords()

	// the first line of the frame, word by word
	for i := 0; i < g.WordsPerLine; i++ {
		sig := src.Signal()

		test.ExpectSuccess(t, sig.Enable)
		test.ExpectSuccess(t, sig.StdLocked)
		test.ExpectEquality(t, sig.Std, spec.NTSC422)

		eav := i < 4
		sav := i >= blank-4 && i < blank

		test.ExpectEquality(t, sig.TRSWord, eav || sav)
		test.ExpectEquality(t, sig.TRSStart, i == 0 || i == blank-4)
		test.ExpectEquality(t, sig.EAV, eav)

		switch {
		case i == 0 || i == blank-4:
			test.ExpectEquality(t, sig.Sample, uint16(trs.First))
		case i == 3 || i == blank-1:
			// line one is in vertical blanking of field two
			test.ExpectEquality(t, sig.Sample, trs.XYZ(spec.NTSC422, true, true, eav))
			test.ExpectSuccess(t, trs.Valid(spec.NTSC422, sig.Sample))
		case eav || sav:
			test.ExpectEquality(t, sig.Sample, uint16(trs.Second))
		case i < blank:
			test.ExpectEquality(t, sig.Sample, trs.Blank(spec.NTSC422, i))
		}

		test.ExpectEquality(t, sig.HBlank, i < blank)
		test.ExpectSuccess(t, sig.VBlank)
	}

	// the stream wraps to the EAV of line two
	sig := src.Signal()
	test.ExpectSuccess(t, sig.TRSWord && sig.TRSStart && sig.EAV)
}

func TestCorruptMarkers(t *testing.T) {
	src, _ := source.Create(spec.PAL422)
	src.CorruptMarkers(1)

	g, _ := spec.Lookup(spec.PAL422)

	var seen int
	for i := 0; i < g.WordsPerLine; i++ {
		sig := src.Signal()
		if sig.TransportError {
			seen++
			test.ExpectFailure(t, trs.Valid(spec.PAL422, sig.Sample))
		} else if sig.TRSWord && !sig.TRSStart && sig.Sample&0x200 == 0x200 {
			test.ExpectSuccess(t, trs.Valid(spec.PAL422, sig.Sample))
		}
	}

	// only the first content word was damaged
	test.ExpectEquality(t, seen, 1)
}

func TestMute(t *testing.T) {
	src, _ := source.Create(spec.NTSC422)
	src.Mute(8)

	// the whole of the EAV is suppressed and the stream sits at blanking
	// level
	for i := 0; i < 8; i++ {
		sig := src.Signal()
		test.ExpectFailure(t, sig.TRSWord)
		test.ExpectEquality(t, sig.Sample, trs.Blank(spec.NTSC422, i))
	}

	sig := src.Signal()
	test.ExpectFailure(t, sig.TRSWord)
}

func TestEarlyVFall(t *testing.T) {
	src, _ := source.Create(spec.NTSC422)
	src.EarlyVFall(18)

	g, _ := spec.Lookup(spec.NTSC422)

	// V bit per line, sampled at the EAV content word
	vbit := make(map[int]bool)
	for ln := 1; ln <= g.Lines; ln++ {
		for i := 0; i < g.WordsPerLine; i++ {
			sig := src.Signal()
			if i == 3 {
				vbit[ln] = sig.VBlank
			}
		}
	}

	test.ExpectSuccess(t, vbit[17])
	test.ExpectFailure(t, vbit[18])
	test.ExpectFailure(t, vbit[19])
	test.ExpectFailure(t, vbit[20])
	test.ExpectSuccess(t, vbit[264])
}

func TestSwitchJump(t *testing.T) {
	src, _ := source.Create(spec.NTSC422)
	src.SwitchJump(100)

	g, _ := spec.Lookup(spec.NTSC422)

	// distance in ticks between successive EAV starts. the line carrying the
	// jump is short by the jump distance
	var last int
	var gaps []int
	for i := 0; i < 12*g.WordsPerLine; i++ {
		sig := src.Signal()
		if sig.TRSWord && sig.TRSStart && sig.EAV {
			if i > 0 {
				gaps = append(gaps, i-last)
			}
			last = i
		}
	}

	var short int
	for _, gap := range gaps {
		if gap != g.WordsPerLine {
			test.ExpectEquality(t, gap, g.WordsPerLine-100)
			short++
		}
	}
	test.ExpectEquality(t, short, 1)
}
