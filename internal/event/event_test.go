package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrapGradientAreas(t *testing.T) {
	g := &TrapGradient{
		Channel:   ChannelZ,
		Amplitude: 1000,
		RiseTime:  100e-6,
		FlatTime:  400e-6,
		FallTime:  30e-6,
		Delay:     20e-6,
	}

	assert.InEpsilon(t, 1000*400e-6, g.FlatArea(), 1e-12)
	assert.InEpsilon(t, 1000*(400e-6+65e-6), g.Area(), 1e-12)
	assert.InDelta(t, 530e-6, g.EventDuration(), 1e-15)
	assert.InDelta(t, 550e-6, End(g), 1e-15)
}

func TestExtendedGradientAreaMatchesTrapezoid(t *testing.T) {
	trap := &TrapGradient{Channel: ChannelX, Amplitude: -500, RiseTime: 30e-6, FlatTime: 640e-6, FallTime: 90e-6}
	times, amps := trap.Waveform()
	ext := &ExtendedGradient{Channel: ChannelX, Times: times, Amps: amps}

	assert.InEpsilon(t, trap.Area(), ext.Area(), 1e-12)
	assert.InDelta(t, trap.EventDuration(), ext.EventDuration(), 1e-15)
}

func TestExtendedGradientSample(t *testing.T) {
	g := &ExtendedGradient{
		Channel: ChannelX,
		Times:   []float64{0, 100e-6, 200e-6},
		Amps:    []float64{0, 1000, 0},
	}

	assert.InDelta(t, 0, g.Sample(-1e-6), 1e-12)
	assert.InDelta(t, 500, g.Sample(50e-6), 1e-9)
	assert.InDelta(t, 1000, g.Sample(100e-6), 1e-9)
	assert.InDelta(t, 250, g.Sample(175e-6), 1e-9)
	assert.InDelta(t, 0, g.Sample(300e-6), 1e-12)
}

func TestRFPulseCenterTime(t *testing.T) {
	// A right half pulse peaks at its first sample, a left half at its last.
	right := &RFPulse{
		Signal: []float64{10, 5, 1},
		Time:   []float64{0.5e-6, 1.5e-6, 2.5e-6},
	}
	left := &RFPulse{
		Signal: []float64{1, 5, 10},
		Time:   []float64{0.5e-6, 1.5e-6, 2.5e-6},
	}

	assert.Equal(t, 0.5e-6, right.CenterTime())
	assert.Equal(t, 2.5e-6, left.CenterTime())
}

func TestADC(t *testing.T) {
	adc := &ADC{NumSamples: 4, Dwell: 5e-6, Delay: 10e-6}

	assert.InDelta(t, 20e-6, adc.EventDuration(), 1e-15)
	assert.Equal(t, []float64{12.5e-6, 17.5e-6, 22.5e-6, 27.5e-6}, adc.SampleTimes())
}

func TestCalcDuration(t *testing.T) {
	g := &TrapGradient{Amplitude: 1, RiseTime: 10e-6, FlatTime: 10e-6, FallTime: 10e-6, Delay: 100e-6}
	adc := &ADC{NumSamples: 10, Dwell: 1e-6}

	assert.InDelta(t, 130e-6, CalcDuration(g, adc), 1e-15)
	assert.Equal(t, 0.0, CalcDuration())
}
