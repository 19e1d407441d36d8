// Package hcl_adapter is the HCL-specific implementation of the
// config.Loader interface. Protocol files may use the predefined time unit
// variables (us, ms, s) in attribute expressions, so durations read the way
// they are spoken: `rf_duration = 400 * us`.
package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/uteseqgo/internal/config"
	"github.com/vk/uteseqgo/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of a protocol file. Both blocks are
// optional; omitted attributes keep their defaults.
type fileRoot struct {
	System   *systemBlock   `hcl:"system,block"`
	Protocol *protocolBlock `hcl:"protocol,block"`
	Remain   hcl.Body       `hcl:",remain"`
}

// Pointer-typed fields distinguish "attribute omitted" from "attribute set
// to the zero value", so a file can explicitly configure a zero.
type systemBlock struct {
	MaxGrad        *float64 `hcl:"max_grad,optional"`
	GradUnit       *string  `hcl:"grad_unit,optional"`
	MaxSlew        *float64 `hcl:"max_slew,optional"`
	SlewUnit       *string  `hcl:"slew_unit,optional"`
	RFDeadTime     *float64 `hcl:"rf_dead_time,optional"`
	RFRingdownTime *float64 `hcl:"rf_ringdown_time,optional"`
	ADCDeadTime    *float64 `hcl:"adc_dead_time,optional"`
	B0             *float64 `hcl:"b0,optional"`
	Gamma          *float64 `hcl:"gamma,optional"`
}

type protocolBlock struct {
	NumSpokes     *int     `hcl:"num_spokes,optional"`
	NumSamples    *int     `hcl:"num_samples,optional"`
	FlipAngleDeg  *float64 `hcl:"flip_angle,optional"`
	RFDuration    *float64 `hcl:"rf_duration,optional"`
	TimeBwProduct *float64 `hcl:"time_bw_product,optional"`
	Apodization   *float64 `hcl:"apodization,optional"`
	SliceProfile  *bool    `hcl:"slice_profile,optional"`
}

// Load parses the protocol file at path and layers its values over the
// defaults. An empty path yields the default model unchanged.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	model := config.Default()
	if path == "" {
		logger.Debug("No protocol file given, using defaults.")
		return model, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	if root.System != nil {
		applySystem(&model.System, root.System)
	}
	if root.Protocol != nil {
		applyProtocol(&model.Protocol, root.Protocol)
	}

	logger.Debug("Protocol file loaded.", "path", path,
		"num_spokes", model.Protocol.NumSpokes, "num_samples", model.Protocol.NumSamples)
	return model, nil
}

// evalContext exposes the time unit variables available to attribute
// expressions.
func (l *Loader) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"us": cty.NumberFloatVal(1e-6),
			"ms": cty.NumberFloatVal(1e-3),
			"s":  cty.NumberFloatVal(1),
		},
	}
}

func applySystem(dst *config.System, b *systemBlock) {
	if b.MaxGrad != nil {
		dst.MaxGrad = *b.MaxGrad
	}
	if b.GradUnit != nil {
		dst.GradUnit = *b.GradUnit
	}
	if b.MaxSlew != nil {
		dst.MaxSlew = *b.MaxSlew
	}
	if b.SlewUnit != nil {
		dst.SlewUnit = *b.SlewUnit
	}
	if b.RFDeadTime != nil {
		dst.RFDeadTime = *b.RFDeadTime
	}
	if b.RFRingdownTime != nil {
		dst.RFRingdownTime = *b.RFRingdownTime
	}
	if b.ADCDeadTime != nil {
		dst.ADCDeadTime = *b.ADCDeadTime
	}
	if b.B0 != nil {
		dst.B0 = *b.B0
	}
	if b.Gamma != nil {
		dst.Gamma = *b.Gamma
	}
}

func applyProtocol(dst *config.Protocol, b *protocolBlock) {
	if b.NumSpokes != nil {
		dst.NumSpokes = *b.NumSpokes
	}
	if b.NumSamples != nil {
		dst.NumSamples = *b.NumSamples
	}
	if b.FlipAngleDeg != nil {
		dst.FlipAngleDeg = *b.FlipAngleDeg
	}
	if b.RFDuration != nil {
		dst.RFDuration = *b.RFDuration
	}
	if b.TimeBwProduct != nil {
		dst.TimeBwProduct = *b.TimeBwProduct
	}
	if b.Apodization != nil {
		dst.Apodization = *b.Apodization
	}
	if b.SliceProfile != nil {
		dst.SliceProfile = *b.SliceProfile
	}
}
