package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Empty(t, cfg.ProtocolPath)
	assert.Equal(t, ".", cfg.OutDir)
	assert.Equal(t, "double_half_pulse", cfg.SeqName)
	assert.False(t, cfg.WriteSeq)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseProtocolPath(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "long flag", args: []string{"-protocol", "proto.hcl"}},
		{name: "shorthand", args: []string{"-p", "proto.hcl"}},
		{name: "positional", args: []string{"proto.hcl"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, shouldExit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.False(t, shouldExit)
			assert.Equal(t, "proto.hcl", cfg.ProtocolPath)
		})
	}
}

func TestParseExportFlags(t *testing.T) {
	cfg, _, err := Parse([]string{"-write-seq", "-write-traj", "-out", "/tmp/seqs", "-seq-name", "ute"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.True(t, cfg.WriteSeq)
	assert.True(t, cfg.WriteTraj)
	assert.Equal(t, "/tmp/seqs", cfg.OutDir)
	assert.Equal(t, "ute", cfg.SeqName)
}

func TestParseValidation(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "bad log format", args: []string{"-log-format", "xml"}},
		{name: "bad log level", args: []string{"-log-level", "loud"}},
		{name: "unknown flag", args: []string{"--no-such-flag"}},
		{name: "traj without seq", args: []string{"-write-traj"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParseHelp(t *testing.T) {
	out := &bytes.Buffer{}

	_, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
}
