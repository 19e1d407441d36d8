package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/uteseqgo/internal/config"
)

func writeProtocolFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "protocol.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	model, err := NewLoader().Load(context.Background(), "")
	require.NoError(t, err)

	if diff := cmp.Diff(config.Default(), model); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeProtocolFile(t, `
system {
  max_grad     = 40
  rf_dead_time = 150 * us
}

protocol {
  num_spokes  = 16
  rf_duration = 0.5 * ms
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	// Overridden attributes take the file values.
	assert.InDelta(t, 40, model.System.MaxGrad, 1e-12)
	assert.InDelta(t, 150e-6, model.System.RFDeadTime, 1e-12)
	assert.Equal(t, 16, model.Protocol.NumSpokes)
	assert.InDelta(t, 0.5e-3, model.Protocol.RFDuration, 1e-12)

	// Everything else keeps its default.
	defaults := config.Default()
	assert.Equal(t, defaults.System.GradUnit, model.System.GradUnit)
	assert.InDelta(t, defaults.System.B0, model.System.B0, 1e-12)
	assert.Equal(t, defaults.Protocol.NumSamples, model.Protocol.NumSamples)
	assert.InDelta(t, defaults.Protocol.Apodization, model.Protocol.Apodization, 1e-12)
}

func TestLoadExplicitZeroWins(t *testing.T) {
	path := writeProtocolFile(t, `
system {
  rf_dead_time = 0
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, model.System.RFDeadTime)
}

func TestLoadSliceProfileToggle(t *testing.T) {
	path := writeProtocolFile(t, `
protocol {
  slice_profile = true
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, model.Protocol.SliceProfile)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "syntax error", content: `system {`},
		{name: "unknown unit variable", content: `protocol { rf_duration = 400 * ns }`},
		{name: "wrong type", content: `protocol { num_spokes = "four" }`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeProtocolFile(t, tc.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
