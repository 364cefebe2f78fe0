// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventPointerMove
)

// Event represents a processed input event. Pointer positions are in window
// coordinates (screen points).
type Event struct {
	Type   EventType
	Key    sdl.Keycode
	Width  int
	Height int
	X      int
	Y      int
}

// Input polls SDL and turns mouse and touch motion into pointer events.
type Input struct {
	events     []Event
	windowSize func() (int, int)
}

// New creates a new input handler. windowSize converts normalised touch
// positions to window coordinates.
func New(windowSize func() (int, int)) *Input {
	return &Input{
		events:     make([]Event, 0, 16),
		windowSize: windowSize,
	}
}

// Update polls SDL events. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Sym,
				})
			}

		case *sdl.MouseMotionEvent:
			// Touch input is reported separately below.
			if e.Which == sdl.TOUCH_MOUSEID {
				continue
			}
			i.events = append(i.events, Event{
				Type: EventPointerMove,
				X:    int(e.X),
				Y:    int(e.Y),
			})

		case *sdl.TouchFingerEvent:
			if e.Type != sdl.FINGERMOTION && e.Type != sdl.FINGERDOWN {
				continue
			}
			w, h := i.windowSize()
			i.events = append(i.events, Event{
				Type: EventPointerMove,
				X:    int(e.X * float32(w)),
				Y:    int(e.Y * float32(h)),
			})
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
