package rf

import (
	"fmt"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/gradient"
	"github.com/vk/uteseqgo/internal/opts"
)

// Side selects which half of the bisected pulse is retained.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// InvalidSideError reports a side argument outside {left, right}.
type InvalidSideError struct {
	Side Side
}

func (e *InvalidSideError) Error() string {
	return fmt.Sprintf("invalid side %q: must be %q or %q", e.Side, SideLeft, SideRight)
}

// OddSampleCountError reports a full pulse whose sample count cannot be
// bisected.
type OddSampleCountError struct {
	Count int
}

func (e *OddSampleCountError) Error() string {
	return fmt.Sprintf("cannot bisect pulse with odd sample count %d", e.Count)
}

// HalfSincParams describes a half-sinc excitation pulse. Duration is the
// duration of the retained half; the full pulse is synthesized at twice
// that. MaxGrad and MaxSlew (Hz/m, Hz/m/s) override the system limits for
// the accompanying gradients only; zero keeps the system values.
type HalfSincParams struct {
	FlipAngle      float64
	Side           Side
	Apodization    float64
	Delay          float64
	Duration       float64
	Dwell          float64
	CenterPos      float64
	FreqOffset     float64
	PhaseOffset    float64
	ReturnGz       bool
	SliceThickness float64 // m
	MaxGrad        float64
	MaxSlew        float64
	TimeBwProduct  float64
	Use            event.Use
}

// SliceGradients is the slice-select / mid-phase / rephase triplet derived
// for a half-pulse excitation. Played twice per repetition around the
// mid-phase, the slice axis accumulates zero net area.
type SliceGradients struct {
	SliceSelect *event.TrapGradient
	MidPhase    *event.TrapGradient
	Rephase     *event.TrapGradient
}

// MakeHalfSincPulse synthesizes a full symmetric sinc pulse at twice the
// requested duration, bisects it and keeps the requested side. The returned
// pulse's shape duration is recomputed from the retained sample count; the
// full pulse's duration metadata is not to be trusted after bisection.
//
// With ReturnGz set, an accompanying gradient triplet is derived from half
// the time-bandwidth product (only half the pulse excites) and the pulse and
// slice-select delays are aligned so the pulse plays on the gradient's flat
// top. The pulse delay is only ever pulled forward, never backward.
func MakeHalfSincPulse(p HalfSincParams, sys *opts.Opts) (*event.RFPulse, *SliceGradients, error) {
	if p.Side != SideLeft && p.Side != SideRight {
		return nil, nil, &InvalidSideError{Side: p.Side}
	}

	full, err := MakeSincPulse(SincParams{
		FlipAngle:     p.FlipAngle,
		Duration:      p.Duration * 2,
		Delay:         p.Delay,
		Apodization:   p.Apodization,
		TimeBwProduct: p.TimeBwProduct,
		CenterPos:     p.CenterPos,
		FreqOffset:    p.FreqOffset,
		PhaseOffset:   p.PhaseOffset,
		Dwell:         p.Dwell,
		Use:           p.Use,
	}, sys)
	if err != nil {
		return nil, nil, err
	}

	if len(full.Signal)%2 != 0 {
		return nil, nil, &OddSampleCountError{Count: len(full.Signal)}
	}
	half := len(full.Signal) / 2

	rf := full
	rf.Time = rf.Time[:half]
	if p.Side == SideLeft {
		rf.Signal = rf.Signal[:half]
	} else {
		rf.Signal = rf.Signal[half:]
	}

	dwell := p.Dwell
	if dwell == 0 {
		dwell = sys.RFRasterTime
	}
	rf.ShapeDur = float64(half) * dwell

	if !p.ReturnGz {
		return rf, nil, nil
	}

	if p.SliceThickness == 0 {
		return nil, nil, fmt.Errorf("slice thickness must be provided when a gradient triplet is requested")
	}
	gradSys := sys
	if p.MaxGrad > 0 {
		gradSys = gradSys.WithMaxGrad(p.MaxGrad)
	}
	if p.MaxSlew > 0 {
		gradSys = gradSys.WithMaxSlew(p.MaxSlew)
	}

	// Only half the pulse excites, so half the time-bandwidth product sets
	// the excitation k-space extent.
	area := (p.TimeBwProduct / 2) / p.SliceThickness

	gz, err := gradient.MakeTrapezoid(event.ChannelZ, gradSys, gradient.TrapParams{
		FlatTime: p.Duration,
		FlatArea: area,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("slice select: %w", err)
	}
	gzm, err := gradient.MakeTrapezoid(event.ChannelZ, gradSys, gradient.TrapParams{
		Area: -(gz.Area() + gz.FlatArea() + 0.5*gz.RiseTime*gz.Amplitude),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("mid phase: %w", err)
	}
	gzr, err := gradient.MakeTrapezoid(event.ChannelZ, gradSys, gradient.TrapParams{
		Area: -(0.5 * gz.FallTime * gz.Amplitude),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rephase: %w", err)
	}

	if rf.Delay > gz.RiseTime {
		gz.Delay = opts.RoundUpToRaster(rf.Delay-gz.RiseTime, sys.GradRasterTime)
	}
	if rf.Delay < gz.RiseTime+gz.Delay {
		rf.Delay = gz.RiseTime + gz.Delay
	}

	return rf, &SliceGradients{SliceSelect: gz, MidPhase: gzm, Rephase: gzr}, nil
}
