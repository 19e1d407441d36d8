// Package assembler turns a protocol description into a complete radial
// acquisition: per spoke two half-pulse excitations on a shared slice-select
// lobe, the mid-phase and rephase rewinds between them, and a golden-angle
// rotated readout with its sampling window.
package assembler

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/ctxlog"
	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/gradient"
	"github.com/vk/uteseqgo/internal/opts"
	"github.com/vk/uteseqgo/internal/rf"
	"github.com/vk/uteseqgo/internal/sequence"
)

// doubleGoldenAngle is the per-spoke rotation increment. Successive spokes
// never repeat an angle and cover k-space near-uniformly for any spoke count.
var doubleGoldenAngle = 4 * math.Pi / (math.Sqrt(5) + 1)

// Protocol is the user-facing description of one acquisition.
type Protocol struct {
	NumSpokes     int
	NumSamples    int
	FlipAngleDeg  float64
	RFDuration    float64 // duration of one half pulse, s
	TimeBwProduct float64
	Apodization   float64
	SliceProfile  bool

	Z  ZParams
	RO ROParams
}

// DefaultProtocol returns the acquisition the sequence was developed with:
// four spokes of 128 samples excited by 400 us half pulses at a 7 degree
// flip angle.
func DefaultProtocol() Protocol {
	return Protocol{
		NumSpokes:     4,
		NumSamples:    128,
		FlipAngleDeg:  7,
		RFDuration:    400e-6,
		TimeBwProduct: 2,
		Apodization:   0.5,
		Z:             DefaultZParams(),
		RO:            DefaultROParams(),
	}
}

// Result is an assembled acquisition plus the timing facts callers report.
type Result struct {
	Seq       *sequence.Sequence
	TR        float64 // duration of one spoke, s
	NumBlocks int
}

// Assemble builds the full sequence for p. Every spoke contributes five
// blocks: slice-select with the right half pulse, mid-phase, slice-select
// again with the left half pulse, rephase, and the rotated readout with its
// sampling window. TR is the sequence duration after the first spoke; all
// spokes are identical in duration, so the total duration is NumSpokes x TR.
func Assemble(ctx context.Context, sys *opts.Opts, p Protocol) (*Result, error) {
	log := ctxlog.FromContext(ctx)

	if p.NumSpokes <= 0 {
		return nil, fmt.Errorf("num_spokes must be positive, got %d", p.NumSpokes)
	}
	if p.NumSamples <= 0 {
		return nil, fmt.Errorf("num_samples must be positive, got %d", p.NumSamples)
	}

	rfDelay := sys.RFDeadTime

	// The slice-select ramp carries the pulse dead time so the half pulse
	// starts exactly on the flat top.
	zp := p.Z
	zp.SSRise = rfDelay
	triplet, err := ZGradients(sys, zp)
	if err != nil {
		return nil, fmt.Errorf("slice axis: %w", err)
	}

	ro, err := Readout(sys, p.RO)
	if err != nil {
		return nil, fmt.Errorf("readout axis: %w", err)
	}

	adc := &event.ADC{
		NumSamples: p.NumSamples,
		Dwell:      ro.Gx.FlatTime / float64(p.NumSamples),
		DeadTime:   sys.ADCDeadTime,
	}
	if p.SliceProfile {
		adc.Delay = event.CalcDuration(ro.Prephaser) + ro.Gx.RiseTime
	}

	flip := p.FlipAngleDeg * math.Pi / 180
	rfRight, _, err := rf.MakeHalfSincPulse(rf.HalfSincParams{
		FlipAngle:     flip,
		Side:          rf.SideRight,
		Apodization:   p.Apodization,
		Duration:      p.RFDuration,
		Delay:         rfDelay,
		TimeBwProduct: p.TimeBwProduct,
		Use:           event.UseExcitation,
	}, sys)
	if err != nil {
		return nil, fmt.Errorf("right half pulse: %w", err)
	}
	rfLeft, _, err := rf.MakeHalfSincPulse(rf.HalfSincParams{
		FlipAngle:     flip,
		Side:          rf.SideLeft,
		Apodization:   p.Apodization,
		Duration:      p.RFDuration,
		Delay:         rfDelay,
		TimeBwProduct: p.TimeBwProduct,
		Use:           event.UseExcitation,
	}, sys)
	if err != nil {
		return nil, fmt.Errorf("left half pulse: %w", err)
	}

	seq := sequence.New(sys)
	var tr float64
	for i := 0; i < p.NumSpokes; i++ {
		if err := seq.AddBlock(triplet.SliceSelect, rfRight); err != nil {
			return nil, fmt.Errorf("spoke %d: %w", i, err)
		}
		if err := seq.AddBlock(triplet.MidPhase); err != nil {
			return nil, fmt.Errorf("spoke %d: %w", i, err)
		}
		if err := seq.AddBlock(triplet.SliceSelect, rfLeft); err != nil {
			return nil, fmt.Errorf("spoke %d: %w", i, err)
		}
		if err := seq.AddBlock(triplet.Rephase); err != nil {
			return nil, fmt.Errorf("spoke %d: %w", i, err)
		}

		rotated, err := gradient.Rotate(ro.Combined, float64(i)*doubleGoldenAngle)
		if err != nil {
			return nil, fmt.Errorf("spoke %d: %w", i, err)
		}
		events := make([]event.Event, 0, 3)
		for _, g := range rotated.Grads() {
			events = append(events, g)
		}
		events = append(events, adc)
		if err := seq.AddBlock(events...); err != nil {
			return nil, fmt.Errorf("spoke %d: %w", i, err)
		}

		if i == 0 {
			tr = seq.Duration()
			log.Debug("repetition time fixed", "tr_ms", tr*1e3)
		}
	}

	return &Result{Seq: seq, TR: tr, NumBlocks: len(seq.Blocks)}, nil
}
