package ui

import "image"

type State int

const (
	StatePaused State = iota
	StateRunning
)

type Action int

type Input struct {
	Action Action
}

const (
	Nothing Action = iota
	Pause
	Reset
	ToggleSwitching
	InjectCorrupt
	InjectEarlyV
	InjectSwitch
)

// Image is a rendered frame of the recovered video along with the diagnostic
// overlay. Prev is the previously completed frame, for display while the
// current frame is still being built
type Image struct {
	Main    *image.RGBA
	Overlay *image.RGBA
	Prev    *image.RGBA
	ID      string
}

type UI struct {
	SetImage  chan Image
	State     chan State
	UserInput chan Input
}

func NewUI() *UI {
	// buffered channels. the gui and the debugger run in different
	// goroutines and neither should ever stall the other
	return &UI{
		SetImage:  make(chan Image, 1),
		State:     make(chan State, 1),
		UserInput: make(chan Input, 1),
	}
}
