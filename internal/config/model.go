package config

// Model is the unified, format-agnostic representation of the entire
// application configuration: the scanner hardware limits and the acquisition
// protocol.
type Model struct {
	System   System
	Protocol Protocol
}

// System holds the scanner hardware limits in user-facing units.
type System struct {
	MaxGrad  float64 // in GradUnit
	GradUnit string
	MaxSlew  float64 // in SlewUnit
	SlewUnit string

	RFDeadTime     float64 // s
	RFRingdownTime float64 // s
	ADCDeadTime    float64 // s

	B0    float64 // T
	Gamma float64 // Hz/T
}

// Protocol holds the acquisition parameters.
type Protocol struct {
	NumSpokes     int
	NumSamples    int
	FlipAngleDeg  float64
	RFDuration    float64 // s
	TimeBwProduct float64
	Apodization   float64
	SliceProfile  bool
}

// Default returns the model every loader starts from: the reference scanner
// and the four-spoke acquisition the sequence was tuned with.
func Default() *Model {
	return &Model{
		System: System{
			MaxGrad:    58,
			GradUnit:   "mT/m",
			MaxSlew:    200,
			SlewUnit:   "mT/m/ms",
			RFDeadTime: 100e-6,
			B0:         2.893620,
			Gamma:      42.577e6,
		},
		Protocol: Protocol{
			NumSpokes:     4,
			NumSamples:    128,
			FlipAngleDeg:  7,
			RFDuration:    400e-6,
			TimeBwProduct: 2,
			Apodization:   0.5,
		},
	}
}
