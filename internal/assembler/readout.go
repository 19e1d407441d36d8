package assembler

import (
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/gradient"
	"github.com/vk/uteseqgo/internal/opts"
	"github.com/vk/uteseqgo/internal/units"
)

// ROParams describes the readout lobe and its spoiler in user units.
// Amplitudes are in mT/m, times in seconds. Delay shifts both gradients
// relative to the sampling window and is ignored in slice-profile mode,
// where the prephaser sets the readout start instead.
type ROParams struct {
	SliceProfile bool

	GxAmp  float64
	GxRise float64
	GxFlat float64
	GxFall float64

	SpoilAmp  float64
	SpoilRise float64
	SpoilFlat float64
	SpoilFall float64

	Delay float64
}

// DefaultROParams returns the tuned readout: a short ramp to the sampling
// plateau followed by a spoiler that starts the moment the plateau ends.
func DefaultROParams() ROParams {
	return ROParams{
		GxAmp: -4.7, GxRise: 30e-6, GxFlat: 640e-6, GxFall: 90e-6,
		SpoilAmp: -11.74, SpoilRise: 90e-6, SpoilFlat: 120e-6, SpoilFall: 70e-6,
		Delay: 60e-6,
	}
}

// ReadoutGradients is the readout lobe, its spoiler, and their merged
// single-channel waveform ready for rotation. Prephaser is set only in
// slice-profile mode.
type ReadoutGradients struct {
	Gx        *event.TrapGradient
	Spoiler   *event.TrapGradient
	Prephaser *event.TrapGradient
	Combined  *event.ExtendedGradient
}

// Readout builds the readout and spoiler trapezoids and merges them into one
// piecewise waveform.
//
// In the default radial topology both play on x, delayed by p.Delay against
// the sampling window. In slice-profile mode everything moves to z and a
// prephaser rewinds half the readout area first; the readout is pushed back
// by the prephaser's duration and the spoiler follows the readout plateau as
// usual.
func Readout(sys *opts.Opts, p ROParams) (*ReadoutGradients, error) {
	gxAmp, err := units.Convert(p.GxAmp, units.MTPerM, units.HzPerM, sys.Gamma)
	if err != nil {
		return nil, fmt.Errorf("readout amplitude: %w", err)
	}
	spoilAmp, err := units.Convert(p.SpoilAmp, units.MTPerM, units.HzPerM, sys.Gamma)
	if err != nil {
		return nil, fmt.Errorf("spoiler amplitude: %w", err)
	}

	ch := event.ChannelX
	delay := p.Delay
	if p.SliceProfile {
		ch = event.ChannelZ
		delay = 0
	}

	gx, err := gradient.MakeTrapezoid(ch, sys, gradient.TrapParams{
		Amplitude: gxAmp,
		RiseTime:  p.GxRise,
		FlatTime:  p.GxFlat,
		FallTime:  p.GxFall,
		Delay:     delay,
	})
	if err != nil {
		return nil, fmt.Errorf("readout: %w", err)
	}

	ro := &ReadoutGradients{Gx: gx}

	if p.SliceProfile {
		prephaser, err := gradient.MakeTrapezoid(ch, sys, gradient.TrapParams{
			Area:     -gx.Area() / 2,
			Duration: math.Max(event.CalcDuration(gx)/4, 200e-6),
		})
		if err != nil {
			return nil, fmt.Errorf("prephaser: %w", err)
		}
		gx.Delay = prephaser.RiseTime + prephaser.FlatTime + prephaser.FallTime
		ro.Prephaser = prephaser
		delay = gx.Delay
	}

	spoiler, err := gradient.MakeTrapezoid(ch, sys, gradient.TrapParams{
		Amplitude: spoilAmp,
		RiseTime:  p.SpoilRise,
		FlatTime:  p.SpoilFlat,
		FallTime:  p.SpoilFall,
		Delay:     p.GxRise + p.GxFlat + delay,
	})
	if err != nil {
		return nil, fmt.Errorf("spoiler: %w", err)
	}
	ro.Spoiler = spoiler

	parts := []event.Gradient{gx, spoiler}
	if ro.Prephaser != nil {
		parts = append([]event.Gradient{ro.Prephaser}, parts...)
	}
	combined, err := gradient.Add(sys, parts...)
	if err != nil {
		return nil, fmt.Errorf("merging readout and spoiler: %w", err)
	}
	ro.Combined = combined

	return ro, nil
}
