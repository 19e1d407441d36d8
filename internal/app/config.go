package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProtocolPath string // optional .hcl protocol file
	OutDir       string
	SeqName      string

	WriteSeq  bool
	WriteTraj bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates the configuration and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.SeqName == "" {
		cfg.SeqName = "double_half_pulse"
	}
	if cfg.WriteTraj && !cfg.WriteSeq {
		return nil, errors.New("writing the trajectory requires writing the sequence as well")
	}
	return &cfg, nil
}
