package flywheel

import (
	"github.com/jetsetilly/testsdi/hardware/spec"
	"github.com/jetsetilly/testsdi/hardware/trs"
)

type syncState int

const (
	stateUnlocked syncState = iota
	stateSearching
	stateLocked
	stateSwitchPending
	stateRecovery
)

func (s syncState) String() string {
	switch s {
	case stateUnlocked:
		return "unlocked"
	case stateSearching:
		return "searching"
	case stateLocked:
		return "locked"
	case stateSwitchPending:
		return "switch pending"
	case stateRecovery:
		return "switch recovery"
	}
	return "unknown"
}

// commands is the set of single-tick pulses issued by the state machine. a
// pulse issued on tick N affects the tracker-owned registers at the start of
// tick N+1. pulses are never held
type commands struct {
	hClear      bool
	hResync     bool
	vLoad       bool
	vLoadLine   int
	vInc        bool
	fLoad       bool
	fAdvance    bool
	ldStd       bool
	clearSwitch bool
}

type stateMachine struct {
	state syncState
	next  syncState

	// run of consecutive matching markers observed so far. the anchoring
	// marker counts as the first match
	matches int
}

func (sm *stateMachine) reset() {
	sm.state = stateUnlocked
	sm.next = stateUnlocked
	sm.matches = 0
}

// locked is the lock flag as it will appear on the next output register
// update. the flag rises on the tick of the qualifying match and falls on
// the tick of the disqualifying mismatch
func (sm *stateMachine) locked() bool {
	switch sm.next {
	case stateLocked, stateSwitchPending, stateRecovery:
		return true
	}
	return false
}

func (sm *stateMachine) run(fw *Flywheel, hsig horizontalSig, vsig verticalSig, fsig fieldSig, rx rxMarker) commands {
	var cmd commands
	sm.next = sm.state

	sig := fw.sig

	// the switch interval always ends on the generated EAV XYZ tick of the
	// line following the switch line, whatever the lock state
	if vsig.window && hsig.xyz && hsig.eav {
		cmd.clearSwitch = true
	}

	// the field register advances with the generated field boundary whenever
	// the trackers are anchored to the stream. an anchor on the same tick
	// takes precedence over the advance
	if vsig.fieldTick && sm.state != stateUnlocked {
		cmd.fAdvance = true
	}

	// content comparison between the generated marker and the received one.
	// the V bit is excluded on sloppy-V lines: emerging practice lets the V
	// bit fall early there and a strict comparison would raise false
	// error-detection events downstream
	match := func() bool {
		if !rx.xyz || rx.err {
			return false
		}
		if rx.eav != hsig.eav {
			return false
		}
		if rx.f != fsig.bit {
			return false
		}
		if !vsig.sloppy && rx.v != vsig.vblank {
			return false
		}
		return true
	}

	// anchor re-aligns every tracker to the received marker. the three load
	// pulses are issued on the same tick so the trackers re-anchor
	// simultaneously
	anchor := func(g spec.Geometry) {
		cmd.ldStd = true
		if rx.eav {
			cmd.hClear = true
		} else {
			cmd.hResync = true
		}
		cmd.vLoad = true
		cmd.vLoadLine = g.Anchor(rx.f, rx.v)
		cmd.fLoad = true
	}

	// a candidate is a received XYZ word that passes basic validity while
	// the standard detector reports a locked standard
	candidate := rx.xyz && !rx.err && sig.StdLocked && sig.Std.Valid() &&
		trs.Valid(sig.Std, sig.Sample)

	switch sm.state {
	case stateUnlocked:
		if candidate {
			if g, ok := spec.Lookup(sig.Std); ok {
				anchor(g)
				sm.matches = 1
				sm.next = stateSearching
			}
		}

	case stateSearching:
		if hsig.xyz {
			if match() {
				sm.matches++

				// the anchor line was only a first approximation. a V bit
				// transition observed at a matching EAV pins the line
				// counter to the exact transition line, as does a genuine
				// field transition in the received stream
				if rx.eav && rx.v != vsig.vblank {
					cmd.vLoad = true
					if rx.v {
						cmd.vLoadLine = fw.geom.VRise[bIdx(rx.f)]
					} else {
						cmd.vLoadLine = fw.geom.VFall[bIdx(rx.f)]
					}
				} else if rx.eav && fsig.rxChanged {
					cmd.vLoad = true
					if rx.f {
						cmd.vLoadLine = fw.geom.FieldRise
					} else {
						cmd.vLoadLine = fw.geom.FieldFall
					}
				}

				if sm.matches >= fw.LockRun {
					sm.next = stateLocked
				}
			} else if candidate {
				// a valid marker in the wrong alignment is a better anchor
				// than the one being verified
				if g, ok := spec.Lookup(sig.Std); ok {
					anchor(g)
					sm.matches = 1
				}
			} else {
				// failed candidate. drop back and wait for a fresh anchor
				sm.matches = 0
				sm.next = stateUnlocked
			}
		} else if candidate {
			if g, ok := spec.Lookup(sig.Std); ok {
				anchor(g)
				sm.matches = 1
			}
		}

	case stateLocked:
		if vsig.window && sig.EnableSwitch && !cmd.clearSwitch {
			sm.next = stateSwitchPending
		} else if hsig.xyz {
			if !match() {
				sm.matches = 0
				sm.next = stateUnlocked
			}
		} else if rx.xyz {
			// a received marker at a position where none is generated is a
			// timing mismatch. the sloppy ranges relax the V bit comparison
			// only, never the marker position
			sm.matches = 0
			sm.next = stateUnlocked
		}

	case stateSwitchPending:
		// mismatches inside the window are tolerated and the received
		// stream passes straight through. alignment is verified on the
		// generated EAV that ends the window
		if hsig.xyz && hsig.eav {
			if match() {
				sm.next = stateLocked
			} else {
				sm.next = stateRecovery
			}
		}

	case stateRecovery:
		// the switch did not land on the expected alignment. re-anchor on
		// the next received EAV without passing through the search
		// protocol. the line boundary was consumed by the switch so the
		// vertical counter is nudged by the forced increment
		if candidate && rx.eav {
			cmd.ldStd = true
			cmd.hClear = true
			cmd.fLoad = true
			if !hsig.eavNext {
				cmd.vInc = true
			}
			sm.next = stateLocked
			sm.matches = fw.LockRun
		}
	}

	return cmd
}

func (sm *stateMachine) tick() {
	sm.state = sm.next
}

func bIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}
