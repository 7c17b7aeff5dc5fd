package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

func (m *debugger) parseStepRule(cmd []string) bool {
	// rough support for step rule definition

	rule := strings.ToUpper(cmd[0])
	if rule == "FRAME" || rule == "FR" {
		var tgt int
		if len(cmd) > 1 {
			var err error
			tgt, err = strconv.Atoi(cmd[1])
			if err != nil {
				fmt.Println(m.styles.err.Render(err.Error()))
				return false
			}
			if tgt <= m.rec.Coords.Frame {
				fmt.Println(m.styles.err.Render(fmt.Sprintf("FRAME %d is in the past", tgt)))
				return false
			}
		} else {
			tgt = m.rec.Coords.Frame + 1
		}
		m.stepRule = func() bool {
			return m.rec.Coords.Frame == tgt
		}
	} else if rule == "LINE" || rule == "LN" {
		var tgt int
		if len(cmd) > 1 {
			var err error
			tgt, err = strconv.Atoi(cmd[1])
			if err != nil {
				fmt.Println(m.styles.err.Render(err.Error()))
				return false
			}
		} else {
			tgt = m.rec.Coords.Line + 1
		}
		m.stepRule = func() bool {
			return m.rec.Coords.Line == tgt && m.rec.Out.HPos == 0
		}
	} else if rule == "LOCK" {
		// steps until the lock flag changes in either direction
		locked := m.rec.FW.Locked()
		m.stepRule = func() bool {
			return m.rec.FW.Locked() != locked
		}
	} else if rule == "TRS" {
		// steps to the XYZ word of the next generated timing marker
		m.stepRule = func() bool {
			return m.rec.Out.XYZ
		}
		m.postStep = func() {
			fmt.Println(m.styles.video.Render(
				fmt.Sprintf("%s xyz=%03x", m.rec.Coords.ShortString(), m.rec.Out.Sample),
			))
		}
	} else if rule == "SWITCH" {
		// steps to the start of the next switch window
		m.stepRule = func() bool {
			return m.rec.Out.SwitchWindow
		}
	} else {
		// a bare number steps that many ticks
		n, err := strconv.Atoi(cmd[0])
		if err != nil || n < 1 {
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("STEP %s is unsupported", rule),
			))
			return false
		}
		var ct int
		m.stepRule = func() bool {
			ct++
			return ct >= n
		}
	}
	return true
}
