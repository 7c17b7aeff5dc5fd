package debugger

import (
	"github.com/jetsetilly/testsdi/hardware/spec"
)

type context struct {
	requestedSpec string
	lockRun       int
	useOverlay    bool
}

func (ctx *context) Spec() spec.Code {
	switch ctx.requestedSpec {
	case "NTSC":
		return spec.NTSC422
	case "NTSC-WIDE":
		return spec.NTSC422Wide
	case "NTSC4444":
		return spec.NTSC4444
	case "PAL":
		return spec.PAL422
	case "PAL-WIDE":
		return spec.PAL422Wide
	case "PAL4444":
		return spec.PAL4444
	}

	panic("currently unsupported specification")
}

// validSpec is used to check the requested specification before the receiver
// is created. the Spec() function itself panics on a bad specification
func (ctx *context) validSpec() bool {
	switch ctx.requestedSpec {
	case "NTSC", "NTSC-WIDE", "NTSC4444", "PAL", "PAL-WIDE", "PAL4444":
		return true
	}
	return false
}

func (ctx *context) LockRun() int {
	return ctx.lockRun
}

func (ctx *context) UseOverlay() bool {
	return ctx.useOverlay
}
