package event

// TrapGradient is a ramp-up / flat / ramp-down gradient on a single axis.
// Amplitude is in Hz/m, times in seconds.
type TrapGradient struct {
	Channel   Channel
	Amplitude float64
	RiseTime  float64
	FlatTime  float64
	FallTime  float64
	Delay     float64
}

func (g *TrapGradient) EventChannel() Channel { return g.Channel }
func (g *TrapGradient) EventDelay() float64   { return g.Delay }

func (g *TrapGradient) EventDuration() float64 {
	return g.RiseTime + g.FlatTime + g.FallTime
}

// FlatArea reports the area of the flat portion only.
func (g *TrapGradient) FlatArea() float64 {
	return g.Amplitude * g.FlatTime
}

func (g *TrapGradient) Area() float64 {
	return g.Amplitude * (g.FlatTime + (g.RiseTime+g.FallTime)/2)
}

func (g *TrapGradient) Waveform() (times, amps []float64) {
	times = []float64{0, g.RiseTime, g.RiseTime + g.FlatTime, g.RiseTime + g.FlatTime + g.FallTime}
	amps = []float64{0, g.Amplitude, g.Amplitude, 0}
	return times, amps
}

// ExtendedGradient is an arbitrary piecewise-linear gradient given by
// (time, amplitude) breakpoints. Times are strictly increasing and relative
// to Delay; the amplitude before the first and after the last breakpoint is
// zero.
type ExtendedGradient struct {
	Channel Channel
	Times   []float64
	Amps    []float64
	Delay   float64
}

func (g *ExtendedGradient) EventChannel() Channel { return g.Channel }
func (g *ExtendedGradient) EventDelay() float64   { return g.Delay }

func (g *ExtendedGradient) EventDuration() float64 {
	if len(g.Times) == 0 {
		return 0
	}
	return g.Times[len(g.Times)-1]
}

func (g *ExtendedGradient) Area() float64 {
	var area float64
	for i := 1; i < len(g.Times); i++ {
		area += (g.Amps[i] + g.Amps[i-1]) / 2 * (g.Times[i] - g.Times[i-1])
	}
	return area
}

func (g *ExtendedGradient) Waveform() (times, amps []float64) {
	return g.Times, g.Amps
}

// Sample reports the amplitude at time t (relative to the delay), linearly
// interpolated between breakpoints and zero outside their span.
func (g *ExtendedGradient) Sample(t float64) float64 {
	n := len(g.Times)
	if n == 0 || t < g.Times[0] || t > g.Times[n-1] {
		return 0
	}
	for i := 1; i < n; i++ {
		if t <= g.Times[i] {
			dt := g.Times[i] - g.Times[i-1]
			if dt == 0 {
				return g.Amps[i]
			}
			frac := (t - g.Times[i-1]) / dt
			return g.Amps[i-1] + frac*(g.Amps[i]-g.Amps[i-1])
		}
	}
	return 0
}

// Scaled returns a copy of g with every amplitude multiplied by factor and
// the channel replaced.
func (g *ExtendedGradient) Scaled(factor float64, ch Channel) *ExtendedGradient {
	amps := make([]float64, len(g.Amps))
	for i, a := range g.Amps {
		amps[i] = a * factor
	}
	times := make([]float64, len(g.Times))
	copy(times, g.Times)
	return &ExtendedGradient{Channel: ch, Times: times, Amps: amps, Delay: g.Delay}
}
