package hardware

import (
	"fmt"
	"image"
	"image/color"

	"github.com/jetsetilly/testsdi/hardware/flywheel"
	"github.com/jetsetilly/testsdi/hardware/source"
	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/ui"
)

// Context is how the receiver learns about the harness configuration
type Context interface {
	Spec() spec.Code
	LockRun() int
	UseOverlay() bool
}

type frame struct {
	debug   bool
	top     int
	bottom  int
	left    int
	right   int
	main    *image.RGBA
	overlay *image.RGBA
}

// Receiver assembles the signal source and the flywheel into a runnable
// unit and builds a viewable image from the recovered output stream
type Receiver struct {
	ctx Context
	u   *ui.UI

	Source *source.Source
	FW     *flywheel.Flywheel

	// frame limiter
	limit *limiter

	// the geometry of the standard the harness was started with. the
	// flywheel tracks its own copy through the standard register
	geom spec.Geometry

	// the current coordinates of the recovered image
	Coords Coords

	// the most recent registered output of the flywheel
	Out flywheel.Output

	currentFrame frame
	prevFrame    frame
}

func Create(ctx Context, u *ui.UI) (*Receiver, error) {
	src, err := source.Create(ctx.Spec())
	if err != nil {
		return nil, fmt.Errorf("receiver: %w", err)
	}

	g, _ := spec.Lookup(ctx.Spec())

	rec := &Receiver{
		ctx:    ctx,
		u:      u,
		Source: src,
		FW:     flywheel.Create(ctx.LockRun()),
		geom:   g,
		limit:  newLimiter(g),
	}

	rec.Coords.Reset()
	rec.newFrame()

	return rec, nil
}

func (rec *Receiver) Reset() {
	rec.Source.Reset()
	rec.FW.Reset()
	rec.Coords.Reset()
	rec.Out = flywheel.Output{}
	rec.newFrame()
}

func (rec *Receiver) newFrame() {
	rec.prevFrame = rec.currentFrame

	rec.currentFrame.debug = rec.ctx.UseOverlay()
	if rec.currentFrame.debug {
		rec.currentFrame.left = 0
		rec.currentFrame.right = rec.geom.WordsPerLine / rec.geom.WordsPerSample
		rec.currentFrame.top = 1
		rec.currentFrame.bottom = rec.geom.Lines
	} else {
		rec.currentFrame.left = rec.geom.BlankWords() / rec.geom.WordsPerSample
		rec.currentFrame.right = rec.geom.WordsPerLine / rec.geom.WordsPerSample
		rec.currentFrame.top = rec.geom.VBlankF1End + 1
		rec.currentFrame.bottom = rec.geom.VBlankF2Start - 1
	}

	rec.currentFrame.main = image.NewRGBA(image.Rect(0, 0,
		rec.currentFrame.right-rec.currentFrame.left,
		rec.currentFrame.bottom-rec.currentFrame.top+1),
	)
	rec.currentFrame.overlay = image.NewRGBA(image.Rect(0, 0,
		rec.currentFrame.right-rec.currentFrame.left,
		rec.currentFrame.bottom-rec.currentFrame.top+1),
	)
}

func (rec *Receiver) PushRender() {
	select {
	case rec.u.SetImage <- ui.Image{
		Main:    rec.currentFrame.main,
		Overlay: rec.currentFrame.overlay,
		Prev:    rec.prevFrame.main,
		ID:      rec.Coords.ShortString(),
	}:
	default:
	}
}

// plot the most recent output into the current frame. only the luminance
// channel is displayed; the recovered picture is greyscale
func (rec *Receiver) plot(out flywheel.Output) {
	// sample period and pixel coordinates of this word
	sample := out.HPos / rec.geom.WordsPerSample
	x := sample - rec.currentFrame.left
	y := out.Line - rec.currentFrame.top

	if out.Line >= rec.currentFrame.top && out.Line <= rec.currentFrame.bottom {
		luma := out.HPos%rec.geom.WordsPerSample == 1
		if luma && !out.HBlank && !out.VBlank {
			v := uint8(out.Sample >> 2)
			rec.currentFrame.main.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	if rec.currentFrame.debug {
		if !out.Locked {
			// unlocked output is red in the overlay
			rec.currentFrame.overlay.Set(x, y, color.RGBA{R: 255, A: 255})
		} else if out.SwitchWindow {
			// switch windows are green
			rec.currentFrame.overlay.Set(x, y, color.RGBA{G: 255, A: 255})
		}

		// vblank is indicated by grey stripes
		if out.VBlank && out.HPos&0x07 == out.Line&0x07 {
			rec.currentFrame.overlay.Set(x, y, color.RGBA{R: 100, G: 100, B: 100, A: 100})
		}
	}
}

// Step advances the receiver by one tick: one sample from the source,
// through the flywheel, into the current frame
func (rec *Receiver) Step() error {
	sig := rec.Source.Signal()
	out := rec.FW.Tick(sig)

	// the frame is complete when the recovered line count wraps
	if out.Line < rec.Out.Line {
		rec.Coords.Frame++

		rec.limit.Wait()
		rec.PushRender()

		// it's no longer safe to use that frame in this context. create a
		// new image to use for the current frame
		rec.newFrame()
	}

	rec.plot(out)

	rec.Out = out
	rec.Coords.Line = out.Line
	rec.Coords.HPos = out.HPos

	return nil
}

// Run the receiver until the hook returns an error. the hook is called after
// every tick
func (rec *Receiver) Run(hook func() error) error {
	for {
		err := rec.Step()
		if err != nil {
			return err
		}

		err = hook()
		if err != nil {
			return err
		}
	}
}

func (rec *Receiver) Nudge() {
	rec.limit.Nudge()
}
