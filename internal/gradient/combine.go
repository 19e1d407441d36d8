package gradient

import (
	"fmt"
	"math"
	"sort"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// Add merges gradients playing on the same channel into one piecewise-linear
// waveform. Delays of the inputs are folded into absolute breakpoint times;
// the result carries a zero delay. The sum of piecewise-linear waveforms is
// exact on the union of their breakpoints.
func Add(sys *opts.Opts, grads ...event.Gradient) (*event.ExtendedGradient, error) {
	if len(grads) == 0 {
		return nil, fmt.Errorf("nothing to add")
	}
	ch := grads[0].EventChannel()
	for _, g := range grads[1:] {
		if g.EventChannel() != ch {
			return nil, fmt.Errorf("cannot add gradients on different channels (%q vs %q)", ch, g.EventChannel())
		}
	}

	// Collect every breakpoint as an absolute time within the block.
	var breaks []float64
	parts := make([]*event.ExtendedGradient, 0, len(grads))
	for _, g := range grads {
		times, amps := g.Waveform()
		abs := make([]float64, len(times))
		for i, t := range times {
			abs[i] = g.EventDelay() + t
			breaks = append(breaks, abs[i])
		}
		parts = append(parts, &event.ExtendedGradient{Channel: ch, Times: abs, Amps: amps})
	}
	sort.Float64s(breaks)
	breaks = dedupe(breaks, 1e-12)

	amps := make([]float64, len(breaks))
	for i, t := range breaks {
		var sum float64
		for _, p := range parts {
			sum += p.Sample(t)
		}
		amps[i] = sum
	}

	// Validate the merged waveform against the same limits as any other
	// piecewise gradient.
	return MakeExtendedTrapezoid(ch, breaks, amps, sys)
}

func dedupe(sorted []float64, tol float64) []float64 {
	out := sorted[:0]
	for _, t := range sorted {
		if len(out) == 0 || t-out[len(out)-1] > tol {
			out = append(out, t)
		}
	}
	return out
}

// Rotated is the fixed-shape result of rotating a gradient about the slice
// axis. Axes whose projected amplitude vanishes are nil.
type Rotated struct {
	X *event.ExtendedGradient
	Y *event.ExtendedGradient
	Z *event.ExtendedGradient
}

// Grads reports the populated axes in x, y, z order.
func (r Rotated) Grads() []event.Gradient {
	var gs []event.Gradient
	if r.X != nil {
		gs = append(gs, r.X)
	}
	if r.Y != nil {
		gs = append(gs, r.Y)
	}
	if r.Z != nil {
		gs = append(gs, r.Z)
	}
	return gs
}

// AxisCount reports how many axes the rotated gradient occupies.
func (r Rotated) AxisCount() int {
	return len(r.Grads())
}

// projectionTol is the relative amplitude below which a rotated component is
// considered absent. Rotations by multiples of pi land exactly on one axis
// up to floating-point sine residue.
const projectionTol = 1e-9

// Rotate rotates g by angle radians about the z axis. A gradient on z is
// unaffected; a gradient on x or y is projected onto both in-plane axes,
// dropping components whose scale factor vanishes.
func Rotate(g *event.ExtendedGradient, angle float64) (Rotated, error) {
	sin, cos := math.Sincos(angle)

	switch g.EventChannel() {
	case event.ChannelZ:
		return Rotated{Z: g.Scaled(1, event.ChannelZ)}, nil
	case event.ChannelX:
		return project(g, cos, sin), nil
	case event.ChannelY:
		return project(g, -sin, cos), nil
	}
	return Rotated{}, fmt.Errorf("cannot rotate gradient on channel %q", g.EventChannel())
}

func project(g *event.ExtendedGradient, xFactor, yFactor float64) Rotated {
	var r Rotated
	if math.Abs(xFactor) > projectionTol {
		r.X = g.Scaled(xFactor, event.ChannelX)
	}
	if math.Abs(yFactor) > projectionTol {
		r.Y = g.Scaled(yFactor, event.ChannelY)
	}
	return r
}
