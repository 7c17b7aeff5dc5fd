package debugger

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/jetsetilly/testsdi/hardware"
	"github.com/jetsetilly/testsdi/hardware/flywheel"
	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/logger"
	"github.com/jetsetilly/testsdi/ui"
)

type input struct {
	s   string
	err error
}

type debugger struct {
	ctx context

	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	// these channels are passed to the debugger during creation via the UI type
	state     chan ui.State
	userInput chan ui.Input

	rec *hardware.Receiver

	// the lock flag at the end of the previous run. lock transitions during a
	// run are reported as events
	lastLocked bool

	// rule for stepping. by default (the field is nil) the emulation runs
	// freely until interrupted
	stepRule func() bool
	postStep func()

	// printing styles
	styles styles
}

func (m *debugger) reset() {
	m.rec.Reset()
	m.rec.Nudge()
	m.lastLocked = false

	fmt.Println(m.styles.debugger.Render("receiver reset"))
	fmt.Println(m.styles.source.Render(m.rec.Source.Status()))
	fmt.Println(m.styles.flywheel.Render(m.rec.FW.Status()))
}

// setState forwards the run state to the gui. the gui drains the channel on
// its own schedule and may not be running at all, so the previous value is
// discarded rather than waiting on it
func (m *debugger) setState(s ui.State) {
	select {
	case <-m.state:
	default:
	}
	m.state <- s
}

// handleAction applies a user input forwarded from the gui. returns true if
// the action should halt a running emulation
func (m *debugger) handleAction(inp ui.Input) bool {
	switch inp.Action {
	case ui.Pause:
		return true
	case ui.Reset:
		m.reset()
	case ui.ToggleSwitching:
		m.rec.Source.Switching = !m.rec.Source.Switching
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("switching enable: %v", m.rec.Source.Switching),
		))
	case ui.InjectCorrupt:
		m.rec.Source.CorruptMarkers(1)
	case ui.InjectEarlyV:
		if g, ok := spec.Lookup(m.rec.FW.Standard()); ok {
			m.rec.Source.EarlyVFall(g.VFall[0] - 2)
		}
	case ui.InjectSwitch:
		m.rec.Source.SwitchJump(100)
	}
	return false
}

// run the receiver until the step rule is satisfied or the run is
// interrupted. a nil step rule means the receiver runs freely
//
// returns true if quit signal has been received
func (m *debugger) run() bool {
	freerun := m.stepRule == nil
	if freerun {
		fmt.Println(m.styles.debugger.Render("receiver running"))
	}

	// we measure the number of ticks in the time period of the running receiver
	var tickCt int
	var startTime time.Time

	var (
		endRunErr = errors.New("end run")
		stepErr   = errors.New("step")
		quitErr   = errors.New("quit")
	)

	// hook is called after every tick of the receiver
	hook := func() error {
		select {
		case <-m.sig:
			return endRunErr
		case <-m.guiQuit:
			return quitErr
		case inp := <-m.userInput:
			if m.handleAction(inp) {
				return endRunErr
			}
		default:
		}

		tickCt++

		// lock transitions are the events of interest in a free running
		// receiver
		if locked := m.rec.FW.Locked(); locked != m.lastLocked {
			m.lastLocked = locked
			if locked {
				fmt.Println(m.styles.event.Render(
					fmt.Sprintf("flywheel locked at %s", m.rec.Coords.ShortString()),
				))
			} else {
				fmt.Println(m.styles.event.Render(
					fmt.Sprintf("flywheel lock lost at %s", m.rec.Coords.ShortString()),
				))
			}
		}

		if m.stepRule != nil && m.stepRule() {
			return stepErr
		}

		return nil
	}

	startTime = time.Now()

	m.setState(ui.StateRunning)
	err := m.rec.Run(hook)
	m.setState(ui.StatePaused)

	if errors.Is(err, quitErr) {
		return true
	}

	m.rec.PushRender()

	if errors.Is(err, endRunErr) {
		fmt.Println(m.styles.debugger.Render(
			fmt.Sprintf("%d ticks in %.02f seconds", tickCt, time.Since(startTime).Seconds())),
		)
	} else if err != nil && !errors.Is(err, stepErr) {
		fmt.Println(m.styles.err.Render(err.Error()))
	}

	if m.postStep == nil {
		// by default we print the general status of the receiver
		fmt.Println(m.styles.flywheel.Render(m.rec.FW.Status()))
		fmt.Println(m.styles.video.Render(m.rec.Coords.String()))
	} else {
		m.postStep()
	}

	m.stepRule = nil
	m.postStep = nil

	return false
}

func (m *debugger) loop() {
	for {
		fmt.Printf("%s> ", m.rec.Coords.ShortString())

		var cmd []string

		select {
		case input := <-m.input:
			if input.err != nil {
				fmt.Println(m.styles.err.Render(input.err.Error()))
				return
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				cmd = []string{"STEP"}
			}
		case inp := <-m.userInput:
			if inp.Action == ui.Pause {
				// the receiver is already paused so the pause key runs it
				cmd = []string{"RUN"}
			} else {
				m.handleAction(inp)
				fmt.Print("\n")
				continue // for loop
			}
		case <-m.sig:
			fmt.Print("\r")
			return
		case <-m.guiQuit:
			fmt.Print("\n")
			return
		}

		if m.commands(cmd) {
			return
		}
	}
}

const programName = "testsdi"

func Launch(guiQuit chan bool, ui *ui.UI, args []string) error {
	var spec string
	var lockRun int
	var profile bool
	var overlay bool

	flgs := flag.NewFlagSet(programName, flag.ExitOnError)
	flgs.StringVar(&spec, "spec", "NTSC", "standard of the signal source: NTSC, NTSC-WIDE, NTSC4444, PAL, PAL-WIDE or PAL4444")
	flgs.IntVar(&lockRun, "lockrun", flywheel.DefaultLockRun, "number of matched markers required for lock")
	flgs.BoolVar(&profile, "profile", false, "create CPU profile for receiver")
	flgs.BoolVar(&overlay, "overlay", false, "add debugging overlay to display")
	err := flgs.Parse(args)
	if err != nil {
		return err
	}
	args = flgs.Args()

	if len(args) > 0 {
		return fmt.Errorf("too many arguments to debugger")
	}

	ctx := context{
		requestedSpec: strings.ToUpper(spec),
		lockRun:       lockRun,
		useOverlay:    overlay,
	}
	if !ctx.validSpec() {
		return fmt.Errorf("unsupported specification: %s", spec)
	}

	m := &debugger{
		ctx:       ctx,
		guiQuit:   guiQuit,
		state:     ui.State,
		userInput: ui.UserInput,
		sig:       make(chan os.Signal, 1),
		input:     make(chan input, 1),
		styles:    newStyles(),
	}

	m.rec, err = hardware.Create(&m.ctx, ui)
	if err != nil {
		return err
	}

	signal.Notify(m.sig, syscall.SIGINT)

	go func() {
		r := bufio.NewReader(os.Stdin)
		b := make([]byte, 256)
		for {
			n, err := r.Read(b)
			select {
			case m.input <- input{
				s:   strings.TrimSpace(string(b[:n])),
				err: err,
			}:
			default:
			}
		}
	}()

	m.reset()

	if profile {
		f, err := os.Create("cpu.profile")
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer func() {
			err := f.Close()
			if err != nil {
				logger.Log(logger.Allow, "performance", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	m.loop()

	return nil
}
