package flywheel

import (
	"github.com/jetsetilly/testsdi/hardware/trs"
)

// the output generator synthesizes marker words and blanking levels and
// arbitrates between the generated and the received sample. its decision is
// purely combinational; the result is registered by the Tick function so no
// combinational logic sits on the output path
type generator struct{}

func (gen *generator) signals(fw *Flywheel, hsig horizontalSig, vsig verticalSig, fsig fieldSig) Output {
	sig := fw.sig
	locked := fw.sm.locked()

	out := Output{
		Field:        fsig.bit,
		VBlank:       vsig.vblank,
		HBlank:       hsig.hblank,
		HPos:         hsig.count,
		Line:         vsig.line,
		SwitchWindow: vsig.window,
		Locked:       locked,
		EAVNext:      hsig.eavNext,
		SAVNext:      hsig.savNext,
		XYZ:          hsig.xyz,
		AncNext:      sig.AncStart,
		EDHNext:      sig.EDHStart,
	}

	// sample arbitration, in priority order: the received sample wins inside
	// an enabled switch window and on sloppy-V lines, but only while locked;
	// the generated marker wins while one is being emitted; an unexpected
	// received marker is substituted with blanking level if marker blanking
	// is enabled; otherwise the received sample passes through unmodified
	switch {
	case locked && ((vsig.window && sig.EnableSwitch) || vsig.sloppy):
		out.Sample = sig.Sample

	case hsig.marker:
		out.TRS = true
		switch hsig.idx {
		case 0:
			out.Sample = trs.First
		case 1:
			out.Sample = trs.Second
		case 2:
			out.Sample = trs.Third
		default:
			out.Sample = trs.XYZ(fw.geom.Code, fsig.bit, vsig.vblank, hsig.eav)
		}

	case sig.EnableBlank && sig.TRSWord:
		out.Sample = trs.Blank(fw.geom.Code, hsig.count)

	default:
		out.Sample = sig.Sample
	}

	return out
}
