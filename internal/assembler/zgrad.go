package assembler

import (
	"fmt"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/gradient"
	"github.com/vk/uteseqgo/internal/opts"
	"github.com/vk/uteseqgo/internal/units"
)

// ZParams describes the slice-axis gradient triplet in user units. Amplitudes
// are in mT/m, times in seconds.
type ZParams struct {
	SSAmp  float64
	SSRise float64
	SSFlat float64
	SSFall float64

	MPAmp  float64
	MPRise float64
	MPFlat float64
	MPFall float64

	RPAmp  float64
	RPRise float64
	RPFall float64
}

// DefaultZParams returns the triplet the double-half-pulse excitation was
// tuned with. The slice-select lobe is played before each half pulse; the
// mid-phase lobe rewinds between the two halves and the rephase lobe closes
// the spoke so the slice axis accumulates zero net area.
func DefaultZParams() ZParams {
	return ZParams{
		SSAmp: 5.87, SSRise: 100e-6, SSFlat: 400e-6, SSFall: 30e-6,
		MPAmp: -18.81, MPRise: 100e-6, MPFlat: 170e-6, MPFall: 100e-6,
		RPAmp: -2.94, RPRise: 30e-6, RPFall: 30e-6,
	}
}

// ZTriplet holds the three slice-axis lobes of one spoke as piecewise
// waveforms.
type ZTriplet struct {
	SliceSelect *event.ExtendedGradient
	MidPhase    *event.ExtendedGradient
	Rephase     *event.ExtendedGradient
}

// ZGradients builds the slice-select, mid-phase and rephase lobes on the z
// channel, converting the mT/m amplitudes to the internal Hz/m and checking
// each lobe against the hardware limits.
func ZGradients(sys *opts.Opts, p ZParams) (*ZTriplet, error) {
	ssAmp, err := units.Convert(p.SSAmp, units.MTPerM, units.HzPerM, sys.Gamma)
	if err != nil {
		return nil, fmt.Errorf("slice select amplitude: %w", err)
	}
	mpAmp, err := units.Convert(p.MPAmp, units.MTPerM, units.HzPerM, sys.Gamma)
	if err != nil {
		return nil, fmt.Errorf("mid phase amplitude: %w", err)
	}
	rpAmp, err := units.Convert(p.RPAmp, units.MTPerM, units.HzPerM, sys.Gamma)
	if err != nil {
		return nil, fmt.Errorf("rephase amplitude: %w", err)
	}

	ss, err := gradient.MakeExtendedTrapezoid(event.ChannelZ,
		[]float64{0, p.SSRise, p.SSRise + p.SSFlat, p.SSRise + p.SSFlat + p.SSFall},
		[]float64{0, ssAmp, ssAmp, 0}, sys)
	if err != nil {
		return nil, fmt.Errorf("slice select: %w", err)
	}
	mp, err := gradient.MakeExtendedTrapezoid(event.ChannelZ,
		[]float64{0, p.MPRise, p.MPRise + p.MPFlat, p.MPRise + p.MPFlat + p.MPFall},
		[]float64{0, mpAmp, mpAmp, 0}, sys)
	if err != nil {
		return nil, fmt.Errorf("mid phase: %w", err)
	}
	rp, err := gradient.MakeExtendedTrapezoid(event.ChannelZ,
		[]float64{0, p.RPRise, p.RPRise + p.RPFall},
		[]float64{0, rpAmp, 0}, sys)
	if err != nil {
		return nil, fmt.Errorf("rephase: %w", err)
	}

	return &ZTriplet{SliceSelect: ss, MidPhase: mp, Rephase: rp}, nil
}
