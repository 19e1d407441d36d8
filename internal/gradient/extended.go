package gradient

import (
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// MakeExtendedTrapezoid builds an arbitrary piecewise-linear gradient on ch
// from (time, amplitude) control points. Times must be strictly increasing;
// the slew inferred between every consecutive pair must stay within the
// system limit or the builder fails with a SlewLimitExceededError.
func MakeExtendedTrapezoid(ch event.Channel, times, amps []float64, sys *opts.Opts) (*event.ExtendedGradient, error) {
	if len(times) != len(amps) {
		return nil, fmt.Errorf("control points mismatch: %d times, %d amplitudes", len(times), len(amps))
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("need at least two control points, got %d", len(times))
	}

	for i, a := range amps {
		if math.Abs(a) > sys.MaxGrad*(1+1e-9) {
			return nil, &InfeasibleGradientError{
				Reason: fmt.Sprintf("control point %d amplitude %.3g Hz/m exceeds maximum %.3g Hz/m", i, a, sys.MaxGrad),
			}
		}
	}

	for i := 1; i < len(times); i++ {
		dt := times[i] - times[i-1]
		if dt <= 0 {
			return nil, fmt.Errorf("control point times must be strictly increasing (index %d)", i)
		}
		slew := math.Abs(amps[i]-amps[i-1]) / dt
		if slew > sys.MaxSlew*(1+1e-9) {
			return nil, &SlewLimitExceededError{Slew: slew, Limit: sys.MaxSlew}
		}
	}

	t := make([]float64, len(times))
	a := make([]float64, len(amps))
	copy(t, times)
	copy(a, amps)
	return &event.ExtendedGradient{Channel: ch, Times: t, Amps: a}, nil
}
