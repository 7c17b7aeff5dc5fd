package hardware

import (
	"fmt"
)

// Coords is the position of the most recent flywheel output in the recovered
// video, as the harness sees it. the line and word values come straight from
// the flywheel's registered outputs; the frame count is the harness's own
type Coords struct {
	Frame int
	Line  int
	HPos  int
}

func (c Coords) String() string {
	return fmt.Sprintf("frame: %d, line: %d, word: %d", c.Frame, c.Line, c.HPos)
}

func (c Coords) ShortString() string {
	return fmt.Sprintf("%d/%03d/%04d", c.Frame, c.Line, c.HPos)
}

func (c *Coords) Reset() {
	c.Frame = 0
	c.Line = 1
	c.HPos = 0
}
