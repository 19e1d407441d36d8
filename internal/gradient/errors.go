package gradient

import "fmt"

// SlewLimitExceededError reports a piecewise waveform whose inferred slew
// rate between two control points exceeds the hardware limit.
type SlewLimitExceededError struct {
	Slew  float64 // Hz/m/s
	Limit float64 // Hz/m/s
}

func (e *SlewLimitExceededError) Error() string {
	return fmt.Sprintf("slew rate %.3g Hz/m/s exceeds system limit %.3g Hz/m/s", e.Slew, e.Limit)
}

// InfeasibleGradientError reports a gradient request that no legal waveform
// can satisfy under the system's amplitude and slew ceilings.
type InfeasibleGradientError struct {
	Reason string
}

func (e *InfeasibleGradientError) Error() string {
	return "infeasible gradient: " + e.Reason
}

// UnimplementedFeatureError reports a parameter combination the builder does
// not support.
type UnimplementedFeatureError struct {
	Feature string
}

func (e *UnimplementedFeatureError) Error() string {
	return "not implemented: " + e.Feature
}
