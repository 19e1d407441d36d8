package sequence

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/vk/uteseqgo/internal/event"
)

// shapeLibrary deduplicates sampled shapes by content, assigning stable
// one-based ids in insertion order.
type shapeLibrary struct {
	ids    map[string]int
	shapes [][]float64
	counts []int
}

func newShapeLibrary() *shapeLibrary {
	return &shapeLibrary{ids: make(map[string]int)}
}

func (l *shapeLibrary) id(samples []float64) int {
	key := ""
	for _, s := range samples {
		key += fmt.Sprintf("%.9g,", s)
	}
	if id, ok := l.ids[key]; ok {
		return id
	}
	id := len(l.shapes) + 1
	l.ids[key] = id
	l.shapes = append(l.shapes, compressShape(samples))
	l.counts = append(l.counts, len(samples))
	return id
}

// Write exports the sequence as a scanner-readable pulseq-style text file.
// Events are deduplicated into per-type libraries referenced from the block
// table; sampled shapes are stored run-length compressed.
func (s *Sequence) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating sequence file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	shapes := newShapeLibrary()

	type rfEntry struct {
		amp                     float64
		magID, phaseID          int
		delayUs                 int
		freqOffset, phaseOffset float64
	}
	type trapEntry struct {
		amp                            float64
		riseUs, flatUs, fallUs, delayUs int
	}
	type gradEntry struct {
		amp             float64
		shapeID, timeID int
		delayUs         int
	}
	type adcEntry struct {
		num                     int
		dwellNs, delayUs        int
		freqOffset, phaseOffset float64
	}

	var rfs []rfEntry
	var traps []trapEntry
	var grads []gradEntry
	var adcs []adcEntry
	rfIDs := map[string]int{}
	trapIDs := map[string]int{}
	gradIDs := map[string]int{}
	adcIDs := map[string]int{}

	us := func(t float64) int { return int(math.Round(t * 1e6)) }

	rfID := func(p *event.RFPulse) int {
		peak := 0.0
		for _, v := range p.Signal {
			peak = math.Max(peak, math.Abs(v))
		}
		mag := make([]float64, len(p.Signal))
		phase := make([]float64, len(p.Signal))
		for i, v := range p.Signal {
			if peak > 0 {
				mag[i] = math.Abs(v) / peak
			}
			if v < 0 {
				phase[i] = 0.5 // half a cycle, i.e. pi
			}
		}
		e := rfEntry{
			amp:         peak,
			magID:       shapes.id(mag),
			phaseID:     shapes.id(phase),
			delayUs:     us(p.Delay),
			freqOffset:  p.FreqOffset,
			phaseOffset: p.PhaseOffset,
		}
		key := fmt.Sprintf("%v", e)
		if id, ok := rfIDs[key]; ok {
			return id
		}
		rfs = append(rfs, e)
		rfIDs[key] = len(rfs)
		return len(rfs)
	}

	gradID := func(g event.Gradient) (id int, isTrap bool) {
		if t, ok := g.(*event.TrapGradient); ok {
			e := trapEntry{
				amp:     t.Amplitude,
				riseUs:  us(t.RiseTime),
				flatUs:  us(t.FlatTime),
				fallUs:  us(t.FallTime),
				delayUs: us(t.Delay),
			}
			key := fmt.Sprintf("%v", e)
			if id, ok := trapIDs[key]; ok {
				return id, true
			}
			traps = append(traps, e)
			trapIDs[key] = len(traps)
			return len(traps), true
		}

		times, amps := g.Waveform()
		peak := 0.0
		for _, v := range amps {
			peak = math.Max(peak, math.Abs(v))
		}
		normAmps := make([]float64, len(amps))
		rasterTimes := make([]float64, len(times))
		for i := range amps {
			if peak > 0 {
				normAmps[i] = amps[i] / peak
			}
			rasterTimes[i] = times[i] / s.sys.GradRasterTime
		}
		e := gradEntry{
			amp:     peak,
			shapeID: shapes.id(normAmps),
			timeID:  shapes.id(rasterTimes),
			delayUs: us(g.EventDelay()),
		}
		key := fmt.Sprintf("%v", e)
		if id, ok := gradIDs[key]; ok {
			return id, false
		}
		grads = append(grads, e)
		gradIDs[key] = len(grads)
		return len(grads), false
	}

	adcID := func(a *event.ADC) int {
		e := adcEntry{
			num:         a.NumSamples,
			dwellNs:     int(math.Round(a.Dwell * 1e9)),
			delayUs:     us(a.Delay),
			freqOffset:  a.FreqOffset,
			phaseOffset: a.PhaseOffset,
		}
		key := fmt.Sprintf("%v", e)
		if id, ok := adcIDs[key]; ok {
			return id
		}
		adcs = append(adcs, e)
		adcIDs[key] = len(adcs)
		return len(adcs)
	}

	// Resolve all blocks into library references first.
	type blockRow struct {
		durRaster, rf, gx, gy, gz, adc int
	}
	rows := make([]blockRow, len(s.Blocks))
	for i, b := range s.Blocks {
		row := blockRow{durRaster: int(math.Round(b.Duration / s.sys.BlockRasterTime))}
		if b.RF != nil {
			row.rf = rfID(b.RF)
		}
		for _, g := range b.Gradients {
			id, isTrap := gradID(g)
			// Trapezoid and shaped gradient ids share a column; the sign of
			// the id distinguishes the library (negative = trapezoid).
			if isTrap {
				id = -id
			}
			switch g.EventChannel() {
			case event.ChannelX:
				row.gx = id
			case event.ChannelY:
				row.gy = id
			case event.ChannelZ:
				row.gz = id
			}
		}
		if b.ADC != nil {
			row.adc = adcID(b.ADC)
		}
		rows[i] = row
	}

	fmt.Fprintf(w, "[VERSION]\nmajor 1\nminor 4\nrevision 0\n\n")

	fmt.Fprintf(w, "[DEFINITIONS]\n")
	fmt.Fprintf(w, "AdcRasterTime %g\n", s.sys.ADCRasterTime)
	fmt.Fprintf(w, "BlockDurationRaster %g\n", s.sys.BlockRasterTime)
	fmt.Fprintf(w, "GradientRasterTime %g\n", s.sys.GradRasterTime)
	fmt.Fprintf(w, "RadiofrequencyRasterTime %g\n", s.sys.RFRasterTime)
	fmt.Fprintf(w, "TotalDuration %g\n", s.Duration())
	for _, key := range s.defOrder {
		fmt.Fprintf(w, "%s %s\n", key, s.defs[key])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "[BLOCKS]\n# NUM DUR RF GX GY GZ ADC\n")
	for i, row := range rows {
		fmt.Fprintf(w, "%d %d %d %d %d %d %d\n", i+1, row.durRaster, row.rf, row.gx, row.gy, row.gz, row.adc)
	}
	fmt.Fprintln(w)

	if len(rfs) > 0 {
		fmt.Fprintf(w, "[RF]\n# ID AMP MAG_ID PHASE_ID DELAY FREQ PHASE\n")
		for i, e := range rfs {
			fmt.Fprintf(w, "%d %g %d %d %d %g %g\n", i+1, e.amp, e.magID, e.phaseID, e.delayUs, e.freqOffset, e.phaseOffset)
		}
		fmt.Fprintln(w)
	}

	if len(grads) > 0 {
		fmt.Fprintf(w, "[GRADIENTS]\n# ID AMP SHAPE_ID TIME_ID DELAY\n")
		for i, e := range grads {
			fmt.Fprintf(w, "%d %g %d %d %d\n", i+1, e.amp, e.shapeID, e.timeID, e.delayUs)
		}
		fmt.Fprintln(w)
	}

	if len(traps) > 0 {
		fmt.Fprintf(w, "[TRAP]\n# ID AMP RISE FLAT FALL DELAY\n")
		for i, e := range traps {
			fmt.Fprintf(w, "%d %g %d %d %d %d\n", i+1, e.amp, e.riseUs, e.flatUs, e.fallUs, e.delayUs)
		}
		fmt.Fprintln(w)
	}

	if len(adcs) > 0 {
		fmt.Fprintf(w, "[ADC]\n# ID NUM DWELL DELAY FREQ PHASE\n")
		for i, e := range adcs {
			fmt.Fprintf(w, "%d %d %d %d %g %g\n", i+1, e.num, e.dwellNs, e.delayUs, e.freqOffset, e.phaseOffset)
		}
		fmt.Fprintln(w)
	}

	if len(shapes.shapes) > 0 {
		fmt.Fprintf(w, "[SHAPES]\n")
		for i, data := range shapes.shapes {
			fmt.Fprintf(w, "\nshape_id %d\nnum_samples %d\n", i+1, shapes.counts[i])
			for _, v := range data {
				fmt.Fprintf(w, "%g\n", v)
			}
		}
	}

	return w.Flush()
}
