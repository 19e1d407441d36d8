// Package gradient builds the gradient events of a sequence: simple
// trapezoids, arbitrary piecewise-linear waveforms, same-channel sums and
// in-plane rotations. All builders are pure: they validate against the given
// system limits and either return a complete event or an error, never a
// partially constructed one.
package gradient

import (
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// TrapParams selects one of the supported trapezoid parameterizations. A
// zero field counts as unset. Exactly one of the following must be given:
//
//   - Amplitude with explicit RiseTime/FlatTime/FallTime,
//   - FlatArea with FlatTime (ramps derived from the slew limit),
//   - Area with Duration (amplitude and ramps solved to fit), or
//   - Area alone (shortest legal trapezoid).
//
// Amplitude is in Hz/m, areas in 1/m, times in seconds.
type TrapParams struct {
	Amplitude float64
	RiseTime  float64
	FlatTime  float64
	FallTime  float64
	Area      float64
	FlatArea  float64
	Duration  float64
	Delay     float64
}

// MakeTrapezoid builds a trapezoid gradient on ch satisfying p within the
// limits of sys. Requests that cannot be met fail with an
// InfeasibleGradientError; requested ramp times that would violate the slew
// limit are clipped upward to the gradient raster.
func MakeTrapezoid(ch event.Channel, sys *opts.Opts, p TrapParams) (*event.TrapGradient, error) {
	if p.Amplitude != 0 && p.Area != 0 {
		return nil, &UnimplementedFeatureError{Feature: "amplitude and area input pair"}
	}

	var g *event.TrapGradient
	var err error
	switch {
	case p.Amplitude != 0:
		g, err = fromAmplitude(ch, sys, p)
	case p.FlatArea != 0:
		g, err = fromFlatArea(ch, sys, p)
	case p.Area != 0 && p.Duration > 0:
		g, err = fromAreaAndDuration(ch, sys, p)
	case p.Area != 0:
		g, err = shortestFromArea(ch, sys, p)
	default:
		return nil, fmt.Errorf("trapezoid needs amplitude, flat_area or area")
	}
	if err != nil {
		return nil, err
	}
	g.Delay = p.Delay
	return g, nil
}

func fromAmplitude(ch event.Channel, sys *opts.Opts, p TrapParams) (*event.TrapGradient, error) {
	if math.Abs(p.Amplitude) > sys.MaxGrad*(1+1e-9) {
		return nil, &InfeasibleGradientError{
			Reason: fmt.Sprintf("amplitude %.3g Hz/m exceeds maximum %.3g Hz/m", p.Amplitude, sys.MaxGrad),
		}
	}

	minRamp := minRampTime(p.Amplitude, sys)
	rise := p.RiseTime
	fall := p.FallTime
	if rise == 0 {
		rise = minRamp
	}
	if fall == 0 {
		fall = rise
	}
	// Requested ramps that violate the slew limit are clipped upward, never
	// silently steepened.
	if rise < minRamp {
		rise = minRamp
	}
	if fall < minRamp {
		fall = minRamp
	}

	return &event.TrapGradient{
		Channel:   ch,
		Amplitude: p.Amplitude,
		RiseTime:  rise,
		FlatTime:  p.FlatTime,
		FallTime:  fall,
	}, nil
}

func fromFlatArea(ch event.Channel, sys *opts.Opts, p TrapParams) (*event.TrapGradient, error) {
	if p.FlatTime <= 0 {
		return nil, fmt.Errorf("flat_area requires a positive flat_time")
	}
	amplitude := p.FlatArea / p.FlatTime
	if math.Abs(amplitude) > sys.MaxGrad*(1+1e-9) {
		return nil, &InfeasibleGradientError{
			Reason: fmt.Sprintf("flat area %.3g over %.3g s needs %.3g Hz/m, maximum is %.3g Hz/m",
				p.FlatArea, p.FlatTime, amplitude, sys.MaxGrad),
		}
	}
	ramp := minRampTime(amplitude, sys)
	return &event.TrapGradient{
		Channel:   ch,
		Amplitude: amplitude,
		RiseTime:  ramp,
		FlatTime:  p.FlatTime,
		FallTime:  ramp,
	}, nil
}

func fromAreaAndDuration(ch event.Channel, sys *opts.Opts, p TrapParams) (*event.TrapGradient, error) {
	d := p.Duration
	absArea := math.Abs(p.Area)

	// A triangle at maximum slew bounds what any waveform of duration d can
	// reach.
	if absArea > sys.MaxSlew*d*d/4*(1+1e-9) {
		return nil, &InfeasibleGradientError{
			Reason: fmt.Sprintf("area %.3g 1/m is not reachable within %.3g s at the slew limit", p.Area, d),
		}
	}

	// Peak amplitude of the ideal (unrastered) solution.
	amp2 := sys.MaxSlew * (d - math.Sqrt(d*d-4*absArea/sys.MaxSlew)) / 2
	rise := opts.RoundUpToRaster(amp2/sys.MaxSlew, sys.GradRasterTime)
	if rise == 0 {
		rise = sys.GradRasterTime
	}
	flat := d - 2*rise
	if flat < sys.GradRasterTime/2 {
		// Degenerates to a triangle.
		rise = math.Floor(d/2/sys.GradRasterTime) * sys.GradRasterTime
		if rise <= 0 {
			return nil, &InfeasibleGradientError{
				Reason: fmt.Sprintf("duration %.3g s is below the gradient raster", d),
			}
		}
		flat = 0
	}
	amplitude := p.Area / (rise + flat)

	if math.Abs(amplitude) > sys.MaxGrad*(1+1e-9) {
		return nil, &InfeasibleGradientError{
			Reason: fmt.Sprintf("area %.3g 1/m within %.3g s needs %.3g Hz/m, maximum is %.3g Hz/m",
				p.Area, d, amplitude, sys.MaxGrad),
		}
	}
	if math.Abs(amplitude)/rise > sys.MaxSlew*(1+1e-9) {
		return nil, &InfeasibleGradientError{
			Reason: fmt.Sprintf("area %.3g 1/m within %.3g s violates the slew limit after rastering", p.Area, d),
		}
	}

	return &event.TrapGradient{
		Channel:   ch,
		Amplitude: amplitude,
		RiseTime:  rise,
		FlatTime:  flat,
		FallTime:  rise,
	}, nil
}

func shortestFromArea(ch event.Channel, sys *opts.Opts, p TrapParams) (*event.TrapGradient, error) {
	absArea := math.Abs(p.Area)

	// Try a triangle first: area = amplitude * rise with rise = amplitude/slew.
	rise := opts.RoundUpToRaster(math.Sqrt(absArea/sys.MaxSlew), sys.GradRasterTime)
	if rise == 0 {
		rise = sys.GradRasterTime
	}
	amplitude := p.Area / rise
	flat := 0.0

	if math.Abs(amplitude) > sys.MaxGrad {
		// Amplitude-limited: stretch into a trapezoid at the gradient ceiling.
		rise = opts.RoundUpToRaster(sys.MaxGrad/sys.MaxSlew, sys.GradRasterTime)
		if rise == 0 {
			rise = sys.GradRasterTime
		}
		flat = opts.RoundUpToRaster(absArea/sys.MaxGrad-rise, sys.GradRasterTime)
		if flat < 0 {
			flat = 0
		}
		amplitude = p.Area / (rise + flat)
		if math.Abs(amplitude) > sys.MaxGrad*(1+1e-9) {
			return nil, &InfeasibleGradientError{
				Reason: fmt.Sprintf("area %.3g 1/m exceeds what the gradient ceiling allows", p.Area),
			}
		}
	}

	return &event.TrapGradient{
		Channel:   ch,
		Amplitude: amplitude,
		RiseTime:  rise,
		FlatTime:  flat,
		FallTime:  rise,
	}, nil
}

// minRampTime reports the shortest raster-aligned ramp that reaches
// amplitude without violating the slew limit.
func minRampTime(amplitude float64, sys *opts.Opts) float64 {
	ramp := opts.RoundUpToRaster(math.Abs(amplitude)/sys.MaxSlew, sys.GradRasterTime)
	if ramp == 0 {
		ramp = sys.GradRasterTime
	}
	return ramp
}
