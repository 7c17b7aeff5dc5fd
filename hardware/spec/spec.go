package spec

import (
	"fmt"

	"github.com/jetsetilly/testsdi/hardware/clocks"
)

// Code is the 3-bit standard code supplied by the autodetection unit. bit 2
// selects the line standard and bits 1-0 select the sampling structure. the
// code is only ever latched into the flywheel on the load-standard pulse
type Code uint8

const (
	NTSC422 Code = iota
	NTSC422Wide
	NTSC4444
	NTSCInvalid
	PAL422
	PAL422Wide
	PAL4444
	PALInvalid
)

func (c Code) String() string {
	switch c {
	case NTSC422:
		return "NTSC 4:2:2"
	case NTSC422Wide:
		return "NTSC 4:2:2 widescreen"
	case NTSC4444:
		return "NTSC 4:4:4:4"
	case PAL422:
		return "PAL 4:2:2"
	case PAL422Wide:
		return "PAL 4:2:2 widescreen"
	case PAL4444:
		return "PAL 4:4:4:4"
	}
	return fmt.Sprintf("invalid standard (%03b)", uint8(c))
}

// Valid returns false for the two reserved codes
func (c Code) Valid() bool {
	return c&0x03 != 0x03 && c <= PALInvalid
}

// NTSC is the field-rate bit of the standard code. true for 525-line
// standards and false for 625-line standards
func (c Code) NTSC() bool {
	return c&0x04 == 0x00
}

// S4444 is true for the 4:4:4:4 sampling family. the XYZ protection formula
// and the blanking word sequence differ between the two families
func (c Code) S4444() bool {
	return c&0x03 == 0x02
}

// Geometry collects the per-standard timing constants. all line numbers are
// 1-based and run to Lines inclusive, as is the convention in the component
// video standards
type Geometry struct {
	ID             string
	Code           Code
	WordsPerLine   int
	ActiveWords    int
	WordsPerSample int
	Lines          int

	// the word clock of the parallel interface and the frame rate that
	// follows from it. only used for pacing the harness, never by the
	// flywheel itself
	WordHz  float64
	FrameHz float64

	// the V bit is asserted on lines 1 to VBlankF1End, VBlankF2Start to
	// VBlankF2End, and from VBlankTail to the end of the frame. a VBlankTail
	// of zero means there is no tail range (525-line standards)
	VBlankF1End   int
	VBlankF2Start int
	VBlankF2End   int
	VBlankTail    int

	// the F bit is low from FieldFall up to but not including FieldRise
	FieldFall int
	FieldRise int

	// the lines on which synchronous source switching is permitted, one per
	// field (SMPTE RP 168)
	SwitchLines [2]int

	// inclusive line ranges, one per field, where the V bit is permitted to
	// fall earlier than the line given by VFall
	SloppyV [2][2]int

	// the line loaded into the vertical counter when the flywheel anchors to
	// a received marker, indexed by the received F and V bits
	AnchorLines [2][2]int

	// the exact lines of the V bit transitions, indexed by the field bit
	VRise [2]int
	VFall [2]int
}

// BlankWords is the length of the horizontal blanking interval in words,
// including both the EAV and SAV sequences
func (g Geometry) BlankWords() int {
	return g.WordsPerLine - g.ActiveWords
}

// VBlank returns the value of the V bit for the given line
func (g Geometry) VBlank(ln int) bool {
	if ln <= g.VBlankF1End {
		return true
	}
	if ln >= g.VBlankF2Start && ln <= g.VBlankF2End {
		return true
	}
	return g.VBlankTail > 0 && ln >= g.VBlankTail
}

// Field returns the value of the F bit for the given line
func (g Geometry) Field(ln int) bool {
	return ln < g.FieldFall || ln >= g.FieldRise
}

// Sloppy returns true if the line is within one of the ranges where an early
// V bit transition is tolerated
func (g Geometry) Sloppy(ln int) bool {
	for _, r := range g.SloppyV {
		if ln >= r[0] && ln <= r[1] {
			return true
		}
	}
	return false
}

// SwitchLine returns true if synchronous switching is permitted on the line
func (g Geometry) SwitchLine(ln int) bool {
	return ln == g.SwitchLines[0] || ln == g.SwitchLines[1]
}

// Anchor returns the line to load into the vertical counter for the given
// received F and V bits
func (g Geometry) Anchor(f bool, v bool) int {
	return g.AnchorLines[bitIdx(f)][bitIdx(v)]
}

func bitIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}

var NTSC [4]Geometry
var PAL [4]Geometry

// Lookup returns the geometry for the standard code. invalid codes return
// false and the caller should not use the returned geometry
func Lookup(c Code) (Geometry, bool) {
	if !c.Valid() {
		return Geometry{}, false
	}
	if c.NTSC() {
		return NTSC[c&0x03], true
	}
	return PAL[c&0x03], true
}

func init() {
	// 525-line vertical timing is shared by the three NTSC sampling
	// structures. from SMPTE 125M: vertical blanking occupies lines 1
	// through 19 and lines 264 through 282, and the F bit is low from line 4
	// to line 265. the switch lines are those recommended by SMPTE RP 168
	ntsc := Geometry{
		Lines:         525,
		VBlankF1End:   19,
		VBlankF2Start: 264,
		VBlankF2End:   282,
		VBlankTail:    0,
		FieldFall:     4,
		FieldRise:     266,
		SwitchLines:   [2]int{10, 273},
		SloppyV:       [2][2]int{{10, 20}, {273, 283}},
		AnchorLines:   [2][2]int{{20, 4}, {283, 266}},
		VRise:         [2]int{264, 1},
		VFall:         [2]int{20, 283},
	}

	// 625-line vertical timing from ITU-R BT.656: field 1 blanking is lines
	// 624 through 22 and field 2 blanking is lines 311 through 335. the F
	// bit is low for the whole of field 1 (lines 1 through 312)
	pal := Geometry{
		Lines:         625,
		VBlankF1End:   22,
		VBlankF2Start: 311,
		VBlankF2End:   335,
		VBlankTail:    624,
		FieldFall:     1,
		FieldRise:     313,
		SwitchLines:   [2]int{6, 319},
		SloppyV:       [2][2]int{{20, 23}, {333, 336}},
		AnchorLines:   [2][2]int{{23, 1}, {336, 313}},
		VRise:         [2]int{311, 624},
		VFall:         [2]int{23, 336},
	}

	build := func(base Geometry, c Code, words int, active int, wps int, wordHz float64) Geometry {
		g := base
		g.ID = c.String()
		g.Code = c
		g.WordsPerLine = words
		g.ActiveWords = active
		g.WordsPerSample = wps
		g.WordHz = wordHz

		// the frame rate follows from the word clock. for the 525-line
		// standards this works out to the exact NTSC rate of 30000/1001
		g.FrameHz = wordHz / float64(words*g.Lines)

		return g
	}

	NTSC[NTSC422&0x03] = build(ntsc, NTSC422, 1716, 1440, 2, clocks.Words422)
	NTSC[NTSC422Wide&0x03] = build(ntsc, NTSC422Wide, 2288, 1920, 2, clocks.Words422Wide)
	NTSC[NTSC4444&0x03] = build(ntsc, NTSC4444, 3432, 2880, 4, clocks.Words4444)

	PAL[PAL422&0x03] = build(pal, PAL422, 1728, 1440, 2, clocks.Words422)
	PAL[PAL422Wide&0x03] = build(pal, PAL422Wide, 2304, 1920, 2, clocks.Words422Wide)
	PAL[PAL4444&0x03] = build(pal, PAL4444, 3456, 2880, 4, clocks.Words4444)
}
