// Package report runs the post-assembly checks and exports the derived
// k-space data. All checks are advisory: a failed check is logged, never
// fatal, since the sequence may still be worth inspecting.
package report

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/vk/uteseqgo/internal/ctxlog"
	"github.com/vk/uteseqgo/internal/sequence"
)

// Validation is the outcome of the timing and nerve-stimulation checks.
type Validation struct {
	TimingOK     bool
	TimingIssues []sequence.TimingIssue
	PNSOK        bool
	PNSPeak      float64 // peak stimulation as a fraction of the limit
}

// Validate checks the assembled sequence against raster and dead-time rules
// and against the reference nerve-stimulation profile, logging the outcome
// of each check.
func Validate(ctx context.Context, seq *sequence.Sequence) *Validation {
	log := ctxlog.FromContext(ctx)
	v := &Validation{}

	v.TimingOK, v.TimingIssues = seq.CheckTiming()
	if v.TimingOK {
		log.Info("timing check passed")
	} else {
		log.Warn("timing check failed", "issues", len(v.TimingIssues))
		for _, issue := range v.TimingIssues {
			log.Warn("timing issue", "detail", issue.String())
		}
	}

	var norm []float64
	v.PNSOK, norm = seq.CalculatePNS(sequence.SafeExampleProfile())
	for _, p := range norm {
		if p > v.PNSPeak {
			v.PNSPeak = p
		}
	}
	if v.PNSOK {
		log.Info("pns check passed", "peak_percent", v.PNSPeak*100)
	} else {
		log.Warn("pns check failed", "peak_percent", v.PNSPeak*100)
	}

	return v
}

// Trajectory computes the k-space trajectory of the assembled sequence.
func Trajectory(seq *sequence.Sequence) *sequence.KSpace {
	return seq.CalculateKSpace()
}

// WriteTrajectory dumps the ADC-sampled trajectory as three semicolon
// delimited rows, one per spatial dimension.
func WriteTrajectory(path string, ks *sequence.KSpace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trajectory file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for ch := 0; ch < 3; ch++ {
		for i, v := range ks.TrajADC[ch] {
			if i > 0 {
				if _, err := w.WriteString(";"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%g", v); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
