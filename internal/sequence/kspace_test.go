package sequence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

func TestCalculateKSpaceIntegratesArea(t *testing.T) {
	sys := opts.Default()
	seq := New(sys)

	g := trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 0)
	require.NoError(t, seq.AddBlock(g))

	ks := seq.CalculateKSpace()
	traj := ks.Traj[0]
	require.NotEmpty(t, traj)

	// With no excitation the trajectory accumulates the full gradient area.
	assert.InEpsilon(t, g.Area(), traj[len(traj)-1], 1e-6)
	// y and z stay at the origin.
	assert.InDelta(t, 0, ks.Traj[1][len(traj)-1], 1e-12)
	assert.InDelta(t, 0, ks.Traj[2][len(traj)-1], 1e-12)
}

func TestCalculateKSpaceResetsAtExcitation(t *testing.T) {
	sys := opts.Default()
	seq := New(sys)

	// A gradient block, then an excitation, then another gradient block.
	g := trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 0)
	require.NoError(t, seq.AddBlock(g))

	rfPulse := &event.RFPulse{
		Signal:   []float64{2, 1},
		Time:     []float64{0.5e-6, 1.5e-6},
		ShapeDur: 2e-6,
		Delay:    100e-6,
		DeadTime: sys.RFDeadTime,
		Use:      event.UseExcitation,
	}
	require.NoError(t, seq.AddBlock(rfPulse))
	require.NoError(t, seq.AddBlock(g))

	ks := seq.CalculateKSpace()
	require.Len(t, ks.TExcitation, 1)

	traj := ks.Traj[0]
	// After the excitation the integral restarts, so the final value is the
	// area of the second gradient alone, not twice it.
	assert.InEpsilon(t, g.Area(), traj[len(traj)-1], 1e-6)

	// Just before the excitation the first gradient's area has accumulated.
	idx := int(ks.TExcitation[0]/ks.RasterTime) - 1
	assert.InEpsilon(t, g.Area(), traj[idx], 1e-6)
}

func TestCalculateKSpaceSamplesADC(t *testing.T) {
	sys := opts.Default()
	seq := New(sys)

	g := trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 60e-6)
	adc := &event.ADC{NumSamples: 128, Dwell: 5e-6}
	require.NoError(t, seq.AddBlock(g, adc))

	ks := seq.CalculateKSpace()
	require.Len(t, ks.TADC, 128)
	require.Len(t, ks.TrajADC[0], 128)

	// The sampled trajectory is monotone along the readout direction and
	// consistent with the raster trajectory.
	for i := 1; i < len(ks.TrajADC[0]); i++ {
		assert.GreaterOrEqual(t, ks.TrajADC[0][i], ks.TrajADC[0][i-1])
	}
	mid := ks.TrajADC[0][64]
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, g.Area())
}

func TestCalculatePNS(t *testing.T) {
	sys := opts.Default()
	seq := New(sys)

	require.NoError(t, seq.AddBlock(trap(event.ChannelX, 1000, 30e-6, 640e-6, 90e-6, 60e-6)))
	require.NoError(t, seq.AddBlock(trap(event.ChannelZ, 250000, 100e-6, 400e-6, 30e-6, 0)))

	ok, norm := seq.CalculatePNS(SafeExampleProfile())
	require.NotEmpty(t, norm)
	assert.True(t, ok, "moderate gradients must pass the reference profile")

	peak := 0.0
	for _, v := range norm {
		assert.GreaterOrEqual(t, v, 0.0)
		peak = math.Max(peak, v)
	}
	assert.Greater(t, peak, 0.0, "switching gradients must produce non-zero stimulation")
	assert.LessOrEqual(t, peak, 1.0)
}

func TestCalculatePNSEmptySequence(t *testing.T) {
	seq := New(opts.Default())
	ok, norm := seq.CalculatePNS(SafeExampleProfile())
	assert.True(t, ok)
	assert.Empty(t, norm)
}
