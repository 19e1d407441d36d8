package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/uteseqgo/internal/assembler"
	"github.com/vk/uteseqgo/internal/ctxlog"
	"github.com/vk/uteseqgo/internal/opts"
	"github.com/vk/uteseqgo/internal/report"
	"github.com/vk/uteseqgo/internal/units"
)

// Run executes the pipeline: resolve the hardware limits, assemble the
// sequence, validate it, and export the requested artifacts.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sys, err := opts.New(opts.Params{
		MaxGrad:        a.model.System.MaxGrad,
		GradUnit:       units.Unit(a.model.System.GradUnit),
		MaxSlew:        a.model.System.MaxSlew,
		SlewUnit:       units.Unit(a.model.System.SlewUnit),
		RFDeadTime:     a.model.System.RFDeadTime,
		RFRingdownTime: a.model.System.RFRingdownTime,
		ADCDeadTime:    a.model.System.ADCDeadTime,
		B0:             a.model.System.B0,
		Gamma:          a.model.System.Gamma,
	})
	if err != nil {
		return fmt.Errorf("resolving system limits: %w", err)
	}

	protocol := assembler.Protocol{
		NumSpokes:     a.model.Protocol.NumSpokes,
		NumSamples:    a.model.Protocol.NumSamples,
		FlipAngleDeg:  a.model.Protocol.FlipAngleDeg,
		RFDuration:    a.model.Protocol.RFDuration,
		TimeBwProduct: a.model.Protocol.TimeBwProduct,
		Apodization:   a.model.Protocol.Apodization,
		SliceProfile:  a.model.Protocol.SliceProfile,
		Z:             assembler.DefaultZParams(),
		RO:            assembler.DefaultROParams(),
	}
	protocol.RO.SliceProfile = protocol.SliceProfile

	res, err := assembler.Assemble(ctx, sys, protocol)
	if err != nil {
		return fmt.Errorf("assembling sequence: %w", err)
	}
	a.logger.Info("Sequence assembled.",
		"spokes", protocol.NumSpokes,
		"blocks", res.NumBlocks,
		"tr_ms", res.TR*1e3,
		"duration_ms", res.Seq.Duration()*1e3,
	)

	report.Validate(ctx, res.Seq)

	if appConfig.WriteSeq {
		res.Seq.SetDefinition("Name", appConfig.SeqName)

		var seqPath string
		if protocol.SliceProfile {
			seqPath = filepath.Join(appConfig.OutDir, fmt.Sprintf(
				"slice_profile_sequence-%d_spokes-%d-inverse_slice_select_gradient.seq",
				protocol.NumSpokes, protocol.NumSamples))
		} else {
			seqPath = filepath.Join(appConfig.OutDir, fmt.Sprintf(
				"%s-%d_spokes-%d_samples-inverse_slice_select_gradient.seq",
				appConfig.SeqName, protocol.NumSpokes, protocol.NumSamples))
		}
		if err := res.Seq.Write(seqPath); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
		a.logger.Info("Sequence file written.", "path", seqPath)

		// The trajectory dump only makes sense for the radial topology.
		if appConfig.WriteTraj && !protocol.SliceProfile {
			trajPath := filepath.Join(appConfig.OutDir, fmt.Sprintf(
				"%s-%d_spokes-%d_samples-trajectory.txt",
				appConfig.SeqName, protocol.NumSpokes, protocol.NumSamples))
			if err := report.WriteTrajectory(trajPath, report.Trajectory(res.Seq)); err != nil {
				return fmt.Errorf("writing trajectory: %w", err)
			}
			a.logger.Info("Trajectory file written.", "path", trajPath)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
