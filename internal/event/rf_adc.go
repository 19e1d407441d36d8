package event

// Use tags what a radio-frequency pulse is for.
type Use string

const (
	UseExcitation Use = "excitation"
	UseRefocusing Use = "refocusing"
	UseInversion  Use = "inversion"
)

// RFPulse is a sampled radio-frequency pulse. Signal holds the amplitude in
// Hz at the sample centers given by Time (seconds, relative to Delay).
type RFPulse struct {
	Signal       []float64
	Time         []float64
	ShapeDur     float64
	Delay        float64
	FreqOffset   float64
	PhaseOffset  float64
	DeadTime     float64
	RingdownTime float64
	Use          Use
}

func (p *RFPulse) EventChannel() Channel  { return ChannelNone }
func (p *RFPulse) EventDelay() float64    { return p.Delay }
func (p *RFPulse) EventDuration() float64 { return p.ShapeDur }

// CenterTime reports the effective center of the pulse relative to its
// delay: the sample of peak amplitude. For a full symmetric pulse this is
// the middle; for a half pulse it is the retained edge.
func (p *RFPulse) CenterTime() float64 {
	if len(p.Signal) == 0 {
		return 0
	}
	peak := 0
	for i, s := range p.Signal {
		if abs(s) > abs(p.Signal[peak]) {
			peak = i
		}
	}
	return p.Time[peak]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// ADC is a sampling window of NumSamples points spaced Dwell seconds apart.
type ADC struct {
	NumSamples  int
	Dwell       float64
	Delay       float64
	DeadTime    float64
	FreqOffset  float64
	PhaseOffset float64
}

func (a *ADC) EventChannel() Channel { return ChannelNone }
func (a *ADC) EventDelay() float64   { return a.Delay }

func (a *ADC) EventDuration() float64 {
	return float64(a.NumSamples) * a.Dwell
}

// SampleTimes reports the center time of every sample relative to the block
// start.
func (a *ADC) SampleTimes() []float64 {
	ts := make([]float64, a.NumSamples)
	for i := range ts {
		ts[i] = a.Delay + (float64(i)+0.5)*a.Dwell
	}
	return ts
}
