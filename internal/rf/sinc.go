// Package rf synthesizes radio-frequency pulse events: full apodized sinc
// pulses and the half-sinc pulses used for ultra-short-echo-time excitation.
package rf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// SincParams describes a full apodized sinc pulse.
type SincParams struct {
	FlipAngle     float64 // rad
	Duration      float64 // s
	Delay         float64 // s
	Apodization   float64
	TimeBwProduct float64
	CenterPos     float64 // position of the peak within the pulse, 0 means 0.5
	FreqOffset    float64 // Hz
	PhaseOffset   float64 // rad
	Dwell         float64 // s, 0 means the system RF raster
	Use           event.Use
}

// MakeSincPulse samples an apodized sinc with the requested time-bandwidth
// product and scales it so its integral realizes the flip angle. The delay
// is floored at the system's RF dead time.
func MakeSincPulse(p SincParams, sys *opts.Opts) (*event.RFPulse, error) {
	if p.Duration <= 0 {
		return nil, fmt.Errorf("rf pulse duration must be positive, got %g", p.Duration)
	}
	dwell := p.Dwell
	if dwell == 0 {
		dwell = sys.RFRasterTime
	}
	centerPos := p.CenterPos
	if centerPos == 0 {
		centerPos = 0.5
	}

	n := int(math.Round(p.Duration / dwell))
	if n <= 0 {
		return nil, fmt.Errorf("rf pulse duration %g s is below the dwell %g s", p.Duration, dwell)
	}

	bw := p.TimeBwProduct / p.Duration
	times := make([]float64, n)
	signal := make([]float64, n)
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) * dwell
		tt := t - p.Duration*centerPos
		window := 1 - p.Apodization + p.Apodization*math.Cos(2*math.Pi*tt/p.Duration)
		times[i] = t
		signal[i] = window * sinc(bw*tt)
	}

	// Scale so the sampled integral produces the requested flip angle.
	flip := floats.Sum(signal) * dwell * 2 * math.Pi
	floats.Scale(p.FlipAngle/flip, signal)

	delay := p.Delay
	if delay < sys.RFDeadTime {
		delay = sys.RFDeadTime
	}

	return &event.RFPulse{
		Signal:       signal,
		Time:         times,
		ShapeDur:     float64(n) * dwell,
		Delay:        delay,
		FreqOffset:   p.FreqOffset,
		PhaseOffset:  p.PhaseOffset,
		DeadTime:     sys.RFDeadTime,
		RingdownTime: sys.RFRingdownTime,
		Use:          p.Use,
	}, nil
}

// sinc is the normalized sinc function sin(pi x)/(pi x).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
