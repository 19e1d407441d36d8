// Package sequence holds the assembled pulse sequence: an ordered list of
// blocks of simultaneous events. It provides the terminal services the
// assembler and reporter rely on: timing validation, k-space trajectory
// integration, peripheral-nerve-stimulation prediction and the scanner file
// export.
package sequence

import (
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// Block is one set of simultaneously played events. Its duration is the
// latest event end, rounded up to the block raster.
type Block struct {
	RF        *event.RFPulse
	Gradients []event.Gradient
	ADC       *event.ADC
	Duration  float64
}

// Events reports every event of the block in a stable order.
func (b *Block) Events() []event.Event {
	var evs []event.Event
	if b.RF != nil {
		evs = append(evs, b.RF)
	}
	for _, g := range b.Gradients {
		evs = append(evs, g)
	}
	if b.ADC != nil {
		evs = append(evs, b.ADC)
	}
	return evs
}

// Sequence is the ordered list of blocks produced by the assembler. Blocks
// are appended once and never mutated afterwards.
type Sequence struct {
	sys      *opts.Opts
	Blocks   []*Block
	defs     map[string]string
	defOrder []string
}

// New creates an empty sequence bound to the given system limits.
func New(sys *opts.Opts) *Sequence {
	return &Sequence{sys: sys, defs: make(map[string]string)}
}

// System reports the limits the sequence was built against.
func (s *Sequence) System() *opts.Opts {
	return s.sys
}

// AddBlock appends a block of simultaneous events. A block holds at most one
// RF pulse, one ADC window and one gradient per axis.
func (s *Sequence) AddBlock(events ...event.Event) error {
	if len(events) == 0 {
		return fmt.Errorf("block needs at least one event")
	}

	b := &Block{}
	seen := map[event.Channel]bool{}
	var end float64
	for _, e := range events {
		switch ev := e.(type) {
		case *event.RFPulse:
			if b.RF != nil {
				return fmt.Errorf("block cannot hold two rf pulses")
			}
			b.RF = ev
			end = math.Max(end, event.End(ev)+ev.RingdownTime)
		case *event.ADC:
			if b.ADC != nil {
				return fmt.Errorf("block cannot hold two adc windows")
			}
			b.ADC = ev
			end = math.Max(end, event.End(ev)+ev.DeadTime)
		case event.Gradient:
			ch := ev.EventChannel()
			if ch != event.ChannelX && ch != event.ChannelY && ch != event.ChannelZ {
				return fmt.Errorf("gradient needs an x, y or z channel, got %q", ch)
			}
			if seen[ch] {
				return fmt.Errorf("block already holds a gradient on channel %q", ch)
			}
			seen[ch] = true
			b.Gradients = append(b.Gradients, ev)
			end = math.Max(end, event.End(ev))
		default:
			return fmt.Errorf("unsupported event type %T", e)
		}
	}

	b.Duration = opts.RoundUpToRaster(end, s.sys.BlockRasterTime)
	s.Blocks = append(s.Blocks, b)
	return nil
}

// Duration reports the total sequence duration: the sum of all block
// durations.
func (s *Sequence) Duration() float64 {
	var d float64
	for _, b := range s.Blocks {
		d += b.Duration
	}
	return d
}

// SetDefinition records a key/value pair carried verbatim into the exported
// file's definitions section.
func (s *Sequence) SetDefinition(key, value string) {
	if _, ok := s.defs[key]; !ok {
		s.defOrder = append(s.defOrder, key)
	}
	s.defs[key] = value
}

// Definition reports a previously set definition, or the empty string.
func (s *Sequence) Definition(key string) string {
	return s.defs[key]
}
