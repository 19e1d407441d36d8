package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

func trap(ch event.Channel, amp, rise, flat, fall, delay float64) *event.TrapGradient {
	return &event.TrapGradient{Channel: ch, Amplitude: amp, RiseTime: rise, FlatTime: flat, FallTime: fall, Delay: delay}
}

func TestAddBlockDurationOnRaster(t *testing.T) {
	sys := opts.Default()
	seq := New(sys)

	// 30+640+90 us plus 60 us delay ends at 820 us, already on the raster.
	require.NoError(t, seq.AddBlock(trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 60e-6)))
	assert.InDelta(t, 820e-6, seq.Blocks[0].Duration, 1e-12)

	// An off-raster end is rounded up to the next block raster tick.
	require.NoError(t, seq.AddBlock(trap(event.ChannelX, 1000, 30e-6, 645e-6, 90e-6, 0)))
	assert.InDelta(t, 770e-6, seq.Blocks[1].Duration, 1e-12)

	assert.InDelta(t, 1590e-6, seq.Duration(), 1e-12)
}

func TestAddBlockRejections(t *testing.T) {
	sys := opts.Default()
	rfPulse := &event.RFPulse{Signal: []float64{1}, Time: []float64{0.5e-6}, ShapeDur: 1e-6}

	testCases := []struct {
		name   string
		events []event.Event
	}{
		{name: "empty block", events: nil},
		{
			name: "two gradients on one channel",
			events: []event.Event{
				trap(event.ChannelX, 1000, 10e-6, 10e-6, 10e-6, 0),
				trap(event.ChannelX, 2000, 10e-6, 10e-6, 10e-6, 0),
			},
		},
		{name: "two rf pulses", events: []event.Event{rfPulse, rfPulse}},
		{
			name: "gradient without channel",
			events: []event.Event{trap(event.ChannelNone, 1000, 10e-6, 10e-6, 10e-6, 0)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seq := New(sys)
			require.Error(t, seq.AddBlock(tc.events...))
		})
	}
}

func TestDefinitions(t *testing.T) {
	seq := New(opts.Default())

	seq.SetDefinition("Name", "ute_double_half_sinc")
	seq.SetDefinition("FOV", "0.25")
	seq.SetDefinition("Name", "renamed")

	assert.Equal(t, "renamed", seq.Definition("Name"))
	assert.Equal(t, "0.25", seq.Definition("FOV"))
	assert.Equal(t, "", seq.Definition("missing"))
}

func TestCheckTimingPasses(t *testing.T) {
	sys := opts.Default()
	seq := New(sys)

	rfPulse := &event.RFPulse{
		Signal:   []float64{1, 2, 1},
		Time:     []float64{0.5e-6, 1.5e-6, 2.5e-6},
		ShapeDur: 3e-6,
		Delay:    sys.RFDeadTime,
		DeadTime: sys.RFDeadTime,
		Use:      event.UseExcitation,
	}
	require.NoError(t, seq.AddBlock(trap(event.ChannelZ, 1000, 100e-6, 400e-6, 30e-6, 0), rfPulse))
	require.NoError(t, seq.AddBlock(
		trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 60e-6),
		&event.ADC{NumSamples: 128, Dwell: 5e-6, Delay: 0},
	))

	ok, issues := seq.CheckTiming()
	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestCheckTimingFindsIssues(t *testing.T) {
	sys := opts.Default()

	testCases := []struct {
		name   string
		events []event.Event
		want   string
	}{
		{
			name:   "gradient breakpoint off raster",
			events: []event.Event{trap(event.ChannelX, 1000, 33e-6, 640e-6, 90e-6, 0)},
			want:   "not on gradient raster",
		},
		{
			name:   "gradient delay off raster",
			events: []event.Event{trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 15e-6)},
			want:   "not on gradient raster",
		},
		{
			name: "rf delay below dead time",
			events: []event.Event{&event.RFPulse{
				Signal: []float64{1}, Time: []float64{0.5e-6}, ShapeDur: 1e-6,
				Delay: 50e-6, DeadTime: 100e-6,
			}},
			want: "below rf dead time",
		},
		{
			name:   "adc dwell off raster",
			events: []event.Event{&event.ADC{NumSamples: 16, Dwell: 5.05e-6}},
			want:   "not on adc raster",
		},
		{
			name: "piecewise waveform with dangling amplitude",
			events: []event.Event{&event.ExtendedGradient{
				Channel: event.ChannelZ,
				Times:   []float64{0, 100e-6, 200e-6},
				Amps:    []float64{0, 1000, 500},
			}},
			want: "non-zero amplitude",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seq := New(sys)
			require.NoError(t, seq.AddBlock(tc.events...))

			ok, issues := seq.CheckTiming()
			assert.False(t, ok)
			require.NotEmpty(t, issues)
			assert.Contains(t, issues[0].String(), tc.want)
		})
	}
}
