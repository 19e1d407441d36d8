package assembler

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

func TestAssembleDefaultProtocol(t *testing.T) {
	ctx := context.Background()
	sys := opts.Default()

	res, err := Assemble(ctx, sys, DefaultProtocol())
	require.NoError(t, err)

	// Four spokes of five blocks each.
	assert.Equal(t, 20, res.NumBlocks)
	require.Len(t, res.Seq.Blocks, 20)

	// Every spoke takes exactly one repetition time.
	assert.InDelta(t, 2500e-6, res.TR, 1e-12)
	assert.InDelta(t, 4*res.TR, res.Seq.Duration(), 1e-12)

	ok, issues := res.Seq.CheckTiming()
	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestAssembleSpokeStructure(t *testing.T) {
	ctx := context.Background()
	sys := opts.Default()

	res, err := Assemble(ctx, sys, DefaultProtocol())
	require.NoError(t, err)

	for spoke := 0; spoke < 4; spoke++ {
		blocks := res.Seq.Blocks[spoke*5 : spoke*5+5]

		// Half pulses ride the slice-select lobes; rewinds play alone.
		require.NotNil(t, blocks[0].RF, "spoke %d right half", spoke)
		assert.Nil(t, blocks[1].RF)
		require.NotNil(t, blocks[2].RF, "spoke %d left half", spoke)
		assert.Nil(t, blocks[3].RF)

		// The sampling window rides the rotated readout.
		require.NotNil(t, blocks[4].ADC, "spoke %d readout", spoke)
		assert.Equal(t, 128, blocks[4].ADC.NumSamples)
		assert.InDelta(t, 5e-6, blocks[4].ADC.Dwell, 1e-15)

		// The right half plays first: its peak sits at the start of the
		// retained samples, the left half's at the end.
		assert.InDelta(t, 0.5e-6, blocks[0].RF.CenterTime(), 1e-12)
		assert.InDelta(t, 399.5e-6, blocks[2].RF.CenterTime(), 1e-12)
	}
}

func TestAssembleGoldenAngleRotation(t *testing.T) {
	ctx := context.Background()
	sys := opts.Default()

	res, err := Assemble(ctx, sys, DefaultProtocol())
	require.NoError(t, err)

	// Spoke 0 is unrotated and stays on a single in-plane axis; later spokes
	// land between axes and need both.
	spoke0 := res.Seq.Blocks[4].Gradients
	require.Len(t, spoke0, 1)
	assert.Equal(t, event.ChannelX, spoke0[0].EventChannel())

	for spoke := 1; spoke < 4; spoke++ {
		grads := res.Seq.Blocks[spoke*5+4].Gradients
		assert.Len(t, grads, 2, "spoke %d", spoke)
	}
}

func TestAssembleSliceProfile(t *testing.T) {
	ctx := context.Background()
	sys := opts.Default()

	p := DefaultProtocol()
	p.SliceProfile = true
	p.RO.SliceProfile = true

	res, err := Assemble(ctx, sys, p)
	require.NoError(t, err)

	// The readout lives on the slice axis, so rotation never splits it:
	// every readout block carries exactly one gradient on z.
	for spoke := 0; spoke < 4; spoke++ {
		block := res.Seq.Blocks[spoke*5+4]
		require.Len(t, block.Gradients, 1, "spoke %d", spoke)
		assert.Equal(t, event.ChannelZ, block.Gradients[0].EventChannel())

		// The sampling window starts after the prephaser and readout ramp.
		assert.Greater(t, block.ADC.Delay, 0.0)
	}

	ok, issues := res.Seq.CheckTiming()
	assert.True(t, ok)
	assert.Empty(t, issues)
}

func TestAssembleDeterministic(t *testing.T) {
	ctx := context.Background()
	sys := opts.Default()

	res1, err := Assemble(ctx, sys, DefaultProtocol())
	require.NoError(t, err)
	res2, err := Assemble(ctx, sys, DefaultProtocol())
	require.NoError(t, err)

	assert.InDelta(t, res1.TR, res2.TR, 0)
	if diff := cmp.Diff(res1.Seq.Blocks, res2.Seq.Blocks); diff != "" {
		t.Fatalf("assembly is not deterministic (-first +second):\n%s", diff)
	}
}

func TestAssembleRejectsBadCounts(t *testing.T) {
	ctx := context.Background()
	sys := opts.Default()

	p := DefaultProtocol()
	p.NumSpokes = 0
	_, err := Assemble(ctx, sys, p)
	require.Error(t, err)

	p = DefaultProtocol()
	p.NumSamples = -1
	_, err = Assemble(ctx, sys, p)
	require.Error(t, err)
}
