package sequence

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vk/uteseqgo/internal/event"
)

// KSpace is the computed k-space trajectory of a sequence: the full
// raster-resolution path, the path sampled at ADC events, and the time
// stamps of excitations and ADC samples.
type KSpace struct {
	Traj        [3][]float64 // 1/m, per gradient raster sample
	TrajADC     [3][]float64 // 1/m, per ADC sample
	TExcitation []float64    // s
	TADC        []float64    // s
	RasterTime  float64
}

// channelIndex maps a gradient channel to a trajectory row.
func channelIndex(ch event.Channel) int {
	switch ch {
	case event.ChannelX:
		return 0
	case event.ChannelY:
		return 1
	default:
		return 2
	}
}

// GradientWaveforms samples every gradient of the sequence onto the
// gradient raster, one amplitude array (Hz/m) per axis. Samples are taken
// at raster centers.
func (s *Sequence) GradientWaveforms() [3][]float64 {
	raster := s.sys.GradRasterTime
	n := int(math.Round(s.Duration() / raster))

	var gw [3][]float64
	for i := range gw {
		gw[i] = make([]float64, n)
	}

	blockStart := 0.0
	for _, b := range s.Blocks {
		for _, g := range b.Gradients {
			times, amps := g.Waveform()
			shape := &event.ExtendedGradient{Times: times, Amps: amps}
			row := gw[channelIndex(g.EventChannel())]

			first := int(math.Floor((blockStart + g.EventDelay() + times[0]) / raster))
			last := int(math.Ceil((blockStart + g.EventDelay() + times[len(times)-1]) / raster))
			for i := max(first, 0); i < min(last+1, n); i++ {
				t := (float64(i) + 0.5) * raster
				row[i] += shape.Sample(t - blockStart - g.EventDelay())
			}
		}
		blockStart += b.Duration
	}
	return gw
}

// CalculateKSpace integrates the gradient waveforms into the k-space
// trajectory. The integral resets at every excitation pulse center, the
// point at which transverse magnetization is created. The trajectory is
// additionally sampled at every ADC sample center by linear interpolation.
func (s *Sequence) CalculateKSpace() *KSpace {
	raster := s.sys.GradRasterTime
	gw := s.GradientWaveforms()
	n := len(gw[0])

	ks := &KSpace{RasterTime: raster}

	// Collect excitation centers and ADC sample times.
	resets := make(map[int]bool)
	blockStart := 0.0
	for _, b := range s.Blocks {
		if b.RF != nil && b.RF.Use == event.UseExcitation {
			t := blockStart + b.RF.Delay + b.RF.CenterTime()
			ks.TExcitation = append(ks.TExcitation, t)
			idx := int(t / raster)
			if idx >= 0 && idx < n {
				resets[idx] = true
			}
		}
		if b.ADC != nil {
			for _, t := range b.ADC.SampleTimes() {
				ks.TADC = append(ks.TADC, blockStart+t)
			}
		}
		blockStart += b.Duration
	}

	// Segment-wise cumulative integration, restarting from zero at every
	// excitation.
	for ch := 0; ch < 3; ch++ {
		moments := make([]float64, n)
		copy(moments, gw[ch])
		floats.Scale(raster, moments)

		traj := make([]float64, n)
		start := 0
		for i := 0; i <= n; i++ {
			if i == n || resets[i] {
				if i > start {
					floats.CumSum(traj[start:i], moments[start:i])
				}
				start = i
			}
		}
		ks.Traj[ch] = traj
	}

	// Sample the trajectory at ADC sample centers.
	for ch := 0; ch < 3; ch++ {
		ks.TrajADC[ch] = make([]float64, len(ks.TADC))
		for i, t := range ks.TADC {
			ks.TrajADC[ch][i] = interpAt(ks.Traj[ch], t/raster-0.5)
		}
	}
	return ks
}

// interpAt linearly interpolates v at fractional index x, clamping at the
// edges.
func interpAt(v []float64, x float64) float64 {
	if len(v) == 0 {
		return 0
	}
	if x <= 0 {
		return v[0]
	}
	if x >= float64(len(v)-1) {
		return v[len(v)-1]
	}
	i := int(x)
	frac := x - float64(i)
	return v[i] + frac*(v[i+1]-v[i])
}
