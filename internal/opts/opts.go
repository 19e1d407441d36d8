// Package opts holds the scanner hardware limits shared by every builder.
//
// An Opts value is immutable after construction. Builders receive it by
// pointer and must never write through it; per-call overrides (for example a
// temporarily raised gradient ceiling) are modeled as derived copies via
// WithMaxGrad / WithMaxSlew.
package opts

import (
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/units"
)

// Params describes hardware limits in user-facing units, the way a protocol
// file states them. Zero-valued fields fall back to defaults.
type Params struct {
	MaxGrad  float64    // in GradUnit
	GradUnit units.Unit // defaults to mT/m
	MaxSlew  float64    // in SlewUnit
	SlewUnit units.Unit // defaults to mT/m/ms

	RFDeadTime     float64 // s
	RFRingdownTime float64 // s
	ADCDeadTime    float64 // s

	GradRasterTime  float64 // s
	RFRasterTime    float64 // s
	ADCRasterTime   float64 // s
	BlockRasterTime float64 // s

	B0    float64 // T
	Gamma float64 // Hz/T
}

// Opts is the resolved, immutable system-limits value. Amplitudes are stored
// in Hz/m and Hz/m/s regardless of the units used at construction.
type Opts struct {
	MaxGrad float64 // Hz/m
	MaxSlew float64 // Hz/m/s

	RFDeadTime     float64
	RFRingdownTime float64
	ADCDeadTime    float64

	GradRasterTime  float64
	RFRasterTime    float64
	ADCRasterTime   float64
	BlockRasterTime float64

	B0    float64
	Gamma float64
}

// New resolves Params into an Opts value, converting amplitude limits into
// the internal standard units.
func New(p Params) (*Opts, error) {
	if p.Gamma == 0 {
		p.Gamma = 42.577e6
	}
	if p.GradUnit == "" {
		p.GradUnit = units.MTPerM
	}
	if p.SlewUnit == "" {
		p.SlewUnit = units.MTPerMPerMs
	}
	if p.MaxGrad == 0 {
		p.MaxGrad = 40
		p.GradUnit = units.MTPerM
	}
	if p.MaxSlew == 0 {
		p.MaxSlew = 170
		p.SlewUnit = units.MTPerMPerMs
	}

	maxGrad, err := units.Convert(p.MaxGrad, p.GradUnit, units.HzPerM, p.Gamma)
	if err != nil {
		return nil, fmt.Errorf("resolving max_grad: %w", err)
	}
	maxSlew, err := units.Convert(p.MaxSlew, p.SlewUnit, units.HzPerMPerS, p.Gamma)
	if err != nil {
		return nil, fmt.Errorf("resolving max_slew: %w", err)
	}

	o := &Opts{
		MaxGrad:         maxGrad,
		MaxSlew:         maxSlew,
		RFDeadTime:      p.RFDeadTime,
		RFRingdownTime:  p.RFRingdownTime,
		ADCDeadTime:     p.ADCDeadTime,
		GradRasterTime:  p.GradRasterTime,
		RFRasterTime:    p.RFRasterTime,
		ADCRasterTime:   p.ADCRasterTime,
		BlockRasterTime: p.BlockRasterTime,
		B0:              p.B0,
		Gamma:           p.Gamma,
	}
	if o.GradRasterTime == 0 {
		o.GradRasterTime = 10e-6
	}
	if o.RFRasterTime == 0 {
		o.RFRasterTime = 1e-6
	}
	if o.ADCRasterTime == 0 {
		o.ADCRasterTime = 100e-9
	}
	if o.BlockRasterTime == 0 {
		o.BlockRasterTime = 10e-6
	}
	return o, nil
}

// Default returns the limits of the reference scanner the sequence was tuned
// for.
func Default() *Opts {
	o, err := New(Params{
		MaxGrad:    58,
		GradUnit:   units.MTPerM,
		MaxSlew:    200,
		SlewUnit:   units.MTPerMPerMs,
		RFDeadTime: 100e-6,
		B0:         2.893620,
		Gamma:      42.577e6,
	})
	if err != nil {
		// Unreachable: the literals above are valid.
		panic(err)
	}
	return o
}

// WithMaxGrad returns a copy of o with the gradient ceiling replaced.
// maxGrad is in Hz/m.
func (o *Opts) WithMaxGrad(maxGrad float64) *Opts {
	c := *o
	c.MaxGrad = maxGrad
	return &c
}

// WithMaxSlew returns a copy of o with the slew ceiling replaced.
// maxSlew is in Hz/m/s.
func (o *Opts) WithMaxSlew(maxSlew float64) *Opts {
	c := *o
	c.MaxSlew = maxSlew
	return &c
}

// RoundUpToRaster rounds t up to the next multiple of raster.
func RoundUpToRaster(t, raster float64) float64 {
	if raster <= 0 {
		return t
	}
	return math.Ceil(t/raster-1e-9) * raster
}

// OnRaster reports whether t is an integer multiple of raster within a
// sub-nanosecond tolerance.
func OnRaster(t, raster float64) bool {
	if raster <= 0 {
		return true
	}
	n := math.Round(t / raster)
	return math.Abs(t-n*raster) < 1e-10
}
