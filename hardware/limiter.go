package hardware

import (
	"time"

	"github.com/jetsetilly/testsdi/hardware/spec"
)

// the limiter paces the receiver to the frame rate of the standard it was
// started with
type limiter struct {
	tick  *time.Ticker
	nudge chan bool
}

func newLimiter(g spec.Geometry) *limiter {
	return &limiter{
		tick:  time.NewTicker(time.Duration(float64(time.Second) / g.FrameHz)),
		nudge: make(chan bool, 1),
	}
}

func (l *limiter) Wait() {
	select {
	case <-l.tick.C:
	case <-l.nudge:
	}
}

// Nudge releases a pending Wait, or the next one if no Wait is in progress
func (l *limiter) Nudge() {
	select {
	case l.nudge <- true:
	default:
	}
}
