package sequence

import "math"

// PNSAxis holds the SAFE-model filter constants of one gradient axis: three
// weighted first-order low-pass stages over the slew waveform, a stimulation
// limit in T/m/s and an effective-coil scale factor.
type PNSAxis struct {
	A1, A2, A3       float64 // stage weights, sum to 1
	Tau1, Tau2, Tau3 float64 // stage time constants, s
	StimLimit        float64 // T/m/s
	StimThreshold    float64 // T/m/s
	GScale           float64
}

// PNSProfile is the reference hardware profile a prediction runs against.
type PNSProfile struct {
	Name    string
	X, Y, Z PNSAxis
}

// SafeExampleProfile is a published-style example gradient coil profile for
// PNS prediction. It stands in for real scanner data the same way the
// reference profile of the original safety model does.
func SafeExampleProfile() PNSProfile {
	return PNSProfile{
		Name: "MP_GPA_EXAMPLE",
		X: PNSAxis{
			A1: 0.40, A2: 0.10, A3: 0.50,
			Tau1: 0.20e-3, Tau2: 0.03e-3, Tau3: 3.00e-3,
			StimLimit: 30.0, StimThreshold: 24.0, GScale: 0.35,
		},
		Y: PNSAxis{
			A1: 0.55, A2: 0.15, A3: 0.30,
			Tau1: 1.50e-3, Tau2: 2.50e-3, Tau3: 0.15e-3,
			StimLimit: 15.0, StimThreshold: 12.0, GScale: 0.31,
		},
		Z: PNSAxis{
			A1: 0.42, A2: 0.40, A3: 0.18,
			Tau1: 2.00e-3, Tau2: 0.12e-3, Tau3: 1.00e-3,
			StimLimit: 25.0, StimThreshold: 20.0, GScale: 0.25,
		},
	}
}

// CalculatePNS predicts peripheral nerve stimulation for the assembled
// sequence against hw. It returns whether the normalized stimulation stays
// at or below 1.0 everywhere, plus the per-sample metric (1.0 = limit). The
// sequence is not mutated; a failed prediction is a report, not an error.
func (s *Sequence) CalculatePNS(hw PNSProfile) (bool, []float64) {
	gw := s.GradientWaveforms()
	n := len(gw[0])
	if n == 0 {
		return true, nil
	}
	dt := s.sys.GradRasterTime

	axes := [3]PNSAxis{hw.X, hw.Y, hw.Z}
	var perAxis [3][]float64
	for ch := 0; ch < 3; ch++ {
		// Slew in T/m/s from the Hz/m waveform.
		slew := make([]float64, n)
		prev := 0.0
		for i := 0; i < n; i++ {
			g := gw[ch][i] / s.sys.Gamma
			slew[i] = (g - prev) / dt
			prev = g
		}
		perAxis[ch] = axisStimulation(slew, axes[ch], dt)
	}

	norm := make([]float64, n)
	ok := true
	for i := 0; i < n; i++ {
		norm[i] = math.Sqrt(perAxis[0][i]*perAxis[0][i] + perAxis[1][i]*perAxis[1][i] + perAxis[2][i]*perAxis[2][i])
		if norm[i] > 1.0 {
			ok = false
		}
	}
	return ok, norm
}

// axisStimulation runs the three-stage SAFE filter over one axis' slew
// waveform and normalizes by the axis stimulation limit.
func axisStimulation(slew []float64, ax PNSAxis, dt float64) []float64 {
	out := make([]float64, len(slew))
	var f1, f2, f3 float64
	k1 := dt / (ax.Tau1 + dt)
	k2 := dt / (ax.Tau2 + dt)
	k3 := dt / (ax.Tau3 + dt)
	for i, sr := range slew {
		f1 += (sr - f1) * k1
		f2 += (math.Abs(sr) - f2) * k2
		f3 += (sr - f3) * k3
		stim := ax.A1*math.Abs(f1) + ax.A2*f2 + ax.A3*math.Abs(f3)
		out[i] = ax.GScale * stim / ax.StimLimit
	}
	return out
}
