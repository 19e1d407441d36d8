// Package units converts gradient and slew-rate amplitudes between the
// physical units accepted in protocol files and the internal standard units
// (Hz/m for gradients, Hz/m/s for slew rates).
package units

import "math"

// Unit identifies a supported physical unit for gradient or slew amplitudes.
type Unit string

// Gradient units.
const (
	HzPerM        Unit = "Hz/m"
	MTPerM        Unit = "mT/m"
	RadPerMsPerMm Unit = "rad/ms/mm"
)

// Slew-rate units.
const (
	HzPerMPerS         Unit = "Hz/m/s"
	MTPerMPerMs        Unit = "mT/m/ms"
	TPerMPerS          Unit = "T/m/s"
	RadPerMsPerMmPerMs Unit = "rad/ms/mm/ms"
)

// UnsupportedUnitError is returned when a conversion names a unit outside the
// supported set, or pairs units from different families.
type UnsupportedUnitError struct {
	Unit Unit
}

func (e *UnsupportedUnitError) Error() string {
	return "unsupported unit: " + string(e.Unit)
}

// toStandard maps a unit to the factor that converts a value in that unit to
// the family's standard unit, given the gyromagnetic ratio in Hz/T.
func toStandard(u Unit, gamma float64) (factor float64, gradientFamily bool, ok bool) {
	switch u {
	case HzPerM:
		return 1, true, true
	case MTPerM:
		return 1e-3 * gamma, true, true
	case RadPerMsPerMm:
		return 1e6 / (2 * math.Pi), true, true
	case HzPerMPerS:
		return 1, false, true
	case MTPerMPerMs:
		return gamma, false, true
	case TPerMPerS:
		return gamma, false, true
	case RadPerMsPerMmPerMs:
		return 1e9 / (2 * math.Pi), false, true
	}
	return 0, false, false
}

// Convert translates value from one unit to another using the given
// gyromagnetic ratio (Hz/T). Both units must belong to the same family
// (gradient or slew); anything else fails with an UnsupportedUnitError.
func Convert(value float64, from, to Unit, gamma float64) (float64, error) {
	fromFactor, fromGrad, ok := toStandard(from, gamma)
	if !ok {
		return 0, &UnsupportedUnitError{Unit: from}
	}
	toFactor, toGrad, ok := toStandard(to, gamma)
	if !ok {
		return 0, &UnsupportedUnitError{Unit: to}
	}
	if fromGrad != toGrad {
		// Cross-family conversion is meaningless.
		return 0, &UnsupportedUnitError{Unit: to}
	}
	return value * fromFactor / toFactor, nil
}
