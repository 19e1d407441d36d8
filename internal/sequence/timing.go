package sequence

import (
	"fmt"
	"math"

	"github.com/vk/uteseqgo/internal/event"
	"github.com/vk/uteseqgo/internal/opts"
)

// TimingIssue is one discrepancy found by CheckTiming.
type TimingIssue struct {
	Block   int
	Event   string
	Message string
}

func (i TimingIssue) String() string {
	return fmt.Sprintf("block %d, %s: %s", i.Block, i.Event, i.Message)
}

// CheckTiming verifies that every block's events are mutually consistent:
// non-negative delays, raster-aligned timestamps, dead-time floors and no
// event running past its block. It reports pass/fail plus every discrepancy
// found; it never mutates the sequence.
func (s *Sequence) CheckTiming() (bool, []TimingIssue) {
	var issues []TimingIssue
	report := func(block int, ev, format string, args ...any) {
		issues = append(issues, TimingIssue{Block: block, Event: ev, Message: fmt.Sprintf(format, args...)})
	}

	for bi, b := range s.Blocks {
		if b.Duration <= 0 {
			report(bi, "block", "non-positive duration %g", b.Duration)
		}
		if !opts.OnRaster(b.Duration, s.sys.BlockRasterTime) {
			report(bi, "block", "duration %g not on block raster %g", b.Duration, s.sys.BlockRasterTime)
		}

		for _, e := range b.Events() {
			name := eventName(e)
			if e.EventDelay() < 0 {
				report(bi, name, "negative delay %g", e.EventDelay())
			}
			if event.End(e) > b.Duration*(1+1e-9) {
				report(bi, name, "event ends at %g, after block duration %g", event.End(e), b.Duration)
			}
		}

		if b.RF != nil {
			if b.RF.Delay < b.RF.DeadTime {
				report(bi, "rf", "delay %g below rf dead time %g", b.RF.Delay, b.RF.DeadTime)
			}
			if !opts.OnRaster(b.RF.Delay, s.sys.RFRasterTime) {
				report(bi, "rf", "delay %g not on rf raster", b.RF.Delay)
			}
			if !opts.OnRaster(b.RF.ShapeDur, s.sys.RFRasterTime) {
				report(bi, "rf", "shape duration %g not on rf raster", b.RF.ShapeDur)
			}
		}

		for _, g := range b.Gradients {
			name := fmt.Sprintf("gradient %s", g.EventChannel())
			if !opts.OnRaster(g.EventDelay(), s.sys.GradRasterTime) {
				report(bi, name, "delay %g not on gradient raster", g.EventDelay())
			}
			times, amps := g.Waveform()
			for _, t := range times {
				if !opts.OnRaster(t, s.sys.GradRasterTime) {
					report(bi, name, "breakpoint %g not on gradient raster", t)
					break
				}
			}
			if len(amps) > 0 {
				if math.Abs(amps[0]) > 1e-9 {
					report(bi, name, "waveform starts at non-zero amplitude %g", amps[0])
				}
				if math.Abs(amps[len(amps)-1]) > 1e-9 {
					report(bi, name, "waveform ends at non-zero amplitude %g", amps[len(amps)-1])
				}
			}
		}

		if b.ADC != nil {
			if b.ADC.Delay < b.ADC.DeadTime {
				report(bi, "adc", "delay %g below adc dead time %g", b.ADC.Delay, b.ADC.DeadTime)
			}
			if !opts.OnRaster(b.ADC.Dwell, s.sys.ADCRasterTime) {
				report(bi, "adc", "dwell %g not on adc raster %g", b.ADC.Dwell, s.sys.ADCRasterTime)
			}
		}
	}

	return len(issues) == 0, issues
}

func eventName(e event.Event) string {
	switch ev := e.(type) {
	case *event.RFPulse:
		return "rf"
	case *event.ADC:
		return "adc"
	case event.Gradient:
		return fmt.Sprintf("gradient %s", ev.EventChannel())
	}
	return fmt.Sprintf("%T", e)
}
