// Package trs implements the timing reference symbol of the serial digital
// component video standards. a TRS is a sequence of four 10-bit words
//
//	0x3ff 0x000 0x000 XYZ
//
// where the XYZ word carries the field bit (F), the vertical blanking bit (V)
// and the horizontal bit (H). the H bit discriminates between the two marker
// types: an EAV marks the start of a digital line and an SAV marks the start
// of active video
package trs

import (
	"math/bits"

	"github.com/jetsetilly/testsdi/hardware/spec"
)

// the three fixed words of the marker sequence
const (
	First  = 0x3ff
	Second = 0x000
	Third  = 0x000
)

// positions of the flag bits in the XYZ word
const (
	maskFixed = 0x200
	maskF     = 0x100
	maskV     = 0x080
	maskH     = 0x040
)

// the blanking level words for the luminance and colour difference channels
const (
	BlankLuma   = 0x040
	BlankChroma = 0x200
)

// XYZ builds the content word of a marker for the given standard. the
// protection bits differ between the two sampling families: the 4:2:2 family
// carries the four XOR bits of ITU-R BT.656 in bits 5-2 with bits 1-0 clear,
// while the 4:4:4:4 family additionally carries an even parity bit over bits
// 9-2 in bit 1 and its complement in bit 0
func XYZ(c spec.Code, f bool, v bool, h bool) uint16 {
	var w uint16 = maskFixed
	if f {
		w |= maskF
	}
	if v {
		w |= maskV
	}
	if h {
		w |= maskH
	}

	// protection bits p3-p0
	if v != h {
		w |= 0x020
	}
	if f != h {
		w |= 0x010
	}
	if f != v {
		w |= 0x008
	}
	if f != (v != h) {
		w |= 0x004
	}

	if c.S4444() {
		if bits.OnesCount16(w>>2)&0x01 == 0x01 {
			w |= 0x002
		} else {
			w |= 0x001
		}
	}

	return w
}

// Decode returns the F, V and H bits of an XYZ word. the protection bits are
// not checked, use Valid for that
func Decode(w uint16) (f bool, v bool, h bool) {
	return w&maskF == maskF, w&maskV == maskV, w&maskH == maskH
}

// Valid checks that the XYZ word is internally consistent for the given
// standard. the upstream symbol detector performs the same check and reports
// failures through the transport error flag, but the flywheel state machine
// also wants to validate candidates during lock search
func Valid(c spec.Code, w uint16) bool {
	if w&maskFixed != maskFixed {
		return false
	}
	f, v, h := Decode(w)
	return w == XYZ(c, f, v, h)
}

// Blank returns the blanking level word for the given horizontal position.
// the 4:2:2 family interleaves the colour difference and luminance channels
// as Cb Y Cr Y, so even positions blank to the chroma level and odd to the
// luma level. the 4:4:4:4 family carries four words per sample period, Cb Y
// Cr A, with the auxiliary channel blanking to the luma level
func Blank(c spec.Code, hpos int) uint16 {
	if c.S4444() {
		switch hpos & 0x03 {
		case 0x00:
			return BlankChroma
		case 0x01:
			return BlankLuma
		case 0x02:
			return BlankChroma
		default:
			return BlankLuma
		}
	}
	if hpos&0x01 == 0x01 {
		return BlankLuma
	}
	return BlankChroma
}
