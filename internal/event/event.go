// Package event defines the closed set of hardware events a sequence block
// can contain: radio-frequency pulses, trapezoid gradients, piecewise-linear
// gradients and sampling (ADC) windows.
//
// Every variant implements the Event interface. There is deliberately no
// open-ended attribute bag: an event's shape is fixed by its type.
package event

import "math"

// Channel identifies the gradient axis an event plays on. RF pulses and ADC
// windows carry ChannelNone.
type Channel string

const (
	ChannelNone Channel = ""
	ChannelX    Channel = "x"
	ChannelY    Channel = "y"
	ChannelZ    Channel = "z"
)

// Event is the capability shared by all block events: a start offset within
// the enclosing block and an active duration on a channel.
type Event interface {
	// EventChannel reports the gradient axis, or ChannelNone.
	EventChannel() Channel
	// EventDelay reports the start offset in seconds from the block start.
	EventDelay() float64
	// EventDuration reports the active time in seconds, excluding the delay.
	EventDuration() float64
}

// Gradient is the capability shared by gradient-shaped events.
type Gradient interface {
	Event
	// Area reports the time integral of the amplitude in 1/m.
	Area() float64
	// Waveform reports the piecewise-linear breakpoints of the gradient,
	// with times relative to the event's delay.
	Waveform() (times, amps []float64)
}

// End reports the time at which e finishes, relative to the block start.
func End(e Event) float64 {
	return e.EventDelay() + e.EventDuration()
}

// CalcDuration reports the time needed to play out all given events, i.e.
// the latest End among them.
func CalcDuration(events ...Event) float64 {
	var d float64
	for _, e := range events {
		d = math.Max(d, End(e))
	}
	return d
}
