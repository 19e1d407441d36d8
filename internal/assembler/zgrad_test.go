package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// mTm converts a mT/m amplitude to Hz/m with the default gamma.
func mTm(amp float64) float64 {
	return amp * 42.577e6 * 1e-3
}

func TestZGradients(t *testing.T) {
	sys := opts.Default()

	triplet, err := ZGradients(sys, DefaultZParams())
	require.NoError(t, err)

	for _, g := range []*event.ExtendedGradient{triplet.SliceSelect, triplet.MidPhase, triplet.Rephase} {
		assert.Equal(t, event.ChannelZ, g.EventChannel())
	}

	// Trapezoid areas of the tuned lobes: flat plus half the ramps.
	assert.InEpsilon(t, mTm(5.87)*465e-6, triplet.SliceSelect.Area(), 1e-9)
	assert.InEpsilon(t, mTm(-18.81)*270e-6, triplet.MidPhase.Area(), 1e-9)
	assert.InEpsilon(t, mTm(-2.94)*30e-6, triplet.Rephase.Area(), 1e-9)

	assert.InDelta(t, 530e-6, triplet.SliceSelect.EventDuration(), 1e-12)
	assert.InDelta(t, 370e-6, triplet.MidPhase.EventDuration(), 1e-12)
	assert.InDelta(t, 60e-6, triplet.Rephase.EventDuration(), 1e-12)
}

func TestZGradientsSlewLimit(t *testing.T) {
	sys := opts.Default()

	p := DefaultZParams()
	p.MPRise = 1e-6 // 18.81 mT/m in a microsecond is far past the slew ceiling
	_, err := ZGradients(sys, p)
	require.Error(t, err)
}
