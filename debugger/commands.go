package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/testsdi/logger"
	"github.com/jetsetilly/testsdi/resources"
)

// parse an optional count argument, returning the supplied default if the
// argument is absent
func (m *debugger) parseCount(cmd []string, def int) (int, bool) {
	if len(cmd) == 0 {
		return def, true
	}
	n, err := strconv.Atoi(cmd[0])
	if err != nil {
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("not a number: %s", cmd[0]),
		))
		return 0, false
	}
	return n, true
}

// parse an ON or OFF argument
func (m *debugger) parseEnable(cmd []string, name string) (bool, bool) {
	if len(cmd) != 1 {
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("%s requires ON or OFF", name),
		))
		return false, false
	}
	switch strings.ToUpper(cmd[0]) {
	case "ON":
		return true, true
	case "OFF":
		return false, true
	}
	fmt.Println(m.styles.err.Render(
		fmt.Sprintf("%s requires ON or OFF", name),
	))
	return false, false
}

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "R", "RUN":
		m.stepRule = nil
		return m.run()

	case "ST", "STEP":
		if len(cmd) > 1 {
			if !m.parseStepRule(cmd[1:]) {
				break // switch
			}
		} else {
			// step one tick by default
			m.stepRule = func() bool {
				return true
			}
		}
		return m.run()

	case "RESET":
		m.reset()

	case "FW", "FLYWHEEL":
		fmt.Println(m.styles.flywheel.Render(
			m.rec.FW.String(),
		))

	case "SRC", "SOURCE":
		fmt.Println(m.styles.source.Render(
			m.rec.Source.Status(),
		))

	case "VIDEO":
		fmt.Println(m.styles.video.Render(
			m.rec.Coords.String(),
		))

	case "SPEC":
		fmt.Println(m.styles.flywheel.Render(
			m.rec.FW.Standard().String(),
		))

	case "OUT":
		fmt.Println(m.styles.video.Render(
			fmt.Sprintf("%s sample=%03x trs=%v eav-next=%v sav-next=%v",
				m.rec.Coords.ShortString(),
				m.rec.Out.Sample, m.rec.Out.TRS,
				m.rec.Out.EAVNext, m.rec.Out.SAVNext),
		))

	case "INJECT":
		if len(cmd) < 2 {
			fmt.Println(m.styles.err.Render(
				"INJECT requires a fault class: ERROR, MUTE, EARLYV, GLITCH or JUMP",
			))
			break // switch
		}

		switch strings.ToUpper(cmd[1]) {
		case "ERROR":
			n, ok := m.parseCount(cmd[2:], 1)
			if !ok {
				break // switch
			}
			m.rec.Source.CorruptMarkers(n)
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("corrupting next %d marker words", n),
			))
		case "MUTE":
			n, ok := m.parseCount(cmd[2:], 8)
			if !ok {
				break // switch
			}
			m.rec.Source.Mute(n)
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("muting markers for %d ticks", n),
			))
		case "EARLYV":
			n, ok := m.parseCount(cmd[2:], 0)
			if !ok {
				break // switch
			}
			m.rec.Source.EarlyVFall(n)
			if n == 0 {
				fmt.Println(m.styles.debugger.Render("early V cancelled"))
			} else {
				fmt.Println(m.styles.debugger.Render(
					fmt.Sprintf("V bit will fall on line %d", n),
				))
			}
		case "GLITCH":
			m.rec.Source.SwitchGlitch()
			fmt.Println(m.styles.debugger.Render("glitching next switch line"))
		case "JUMP":
			n, ok := m.parseCount(cmd[2:], 100)
			if !ok {
				break // switch
			}
			m.rec.Source.SwitchJump(n)
			fmt.Println(m.styles.debugger.Render(
				fmt.Sprintf("next switch will jump %d words", n),
			))
		default:
			fmt.Println(m.styles.err.Render(
				fmt.Sprintf("unrecognised fault class: %s", cmd[1]),
			))
		}

	case "SWITCHING":
		v, ok := m.parseEnable(cmd[1:], "SWITCHING")
		if !ok {
			break // switch
		}
		m.rec.Source.Switching = v
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("switching enable: %v", v),
		))

	case "BLANKING":
		v, ok := m.parseEnable(cmd[1:], "BLANKING")
		if !ok {
			break // switch
		}
		m.rec.Source.Blanking = v
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("blanking enable: %v", v),
		))

	case "STDLOCK":
		v, ok := m.parseEnable(cmd[1:], "STDLOCK")
		if !ok {
			break // switch
		}
		m.rec.Source.StdLocked = v
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("standard detector lock: %v", v),
		))

	case "DUMP":
		name := "debugger.log"
		if len(cmd) > 1 {
			name = cmd[1]
		}

		pth, err := resources.JoinPath("logs", name)
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
			break // switch
		}

		f, err := os.Create(pth)
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
			break // switch
		}

		logger.Write(f)
		err = f.Close()
		if err != nil {
			fmt.Println(m.styles.err.Render(err.Error()))
			break // switch
		}

		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("log written to %s", pth),
		))

	case "LOG":
		logger.Tail(os.Stdout, -1)

	case "QUIT":
		return true

	default:
		fmt.Println(m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}
