package sequence

// compressShape encodes a sampled shape the way the pulseq format stores it:
// the first derivative of the samples, run-length encoded (a run of equal
// values is stored as value, value, extra-repeat-count). If the encoding
// does not actually shrink the data, the raw samples are kept; readers tell
// the two apart by comparing the stored length against the sample count.
func compressShape(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	deriv := make([]float64, len(samples))
	deriv[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		deriv[i] = samples[i] - samples[i-1]
	}

	var out []float64
	i := 0
	for i < len(deriv) {
		run := 1
		for i+run < len(deriv) && deriv[i+run] == deriv[i] {
			run++
		}
		if run == 1 {
			out = append(out, deriv[i])
		} else {
			// A repeated pair is always followed by the extra-repeat count,
			// even when that count is zero.
			out = append(out, deriv[i], deriv[i], float64(run-2))
		}
		i += run
	}

	if len(out) >= len(samples) {
		raw := make([]float64, len(samples))
		copy(raw, samples)
		return raw
	}
	return out
}

// decompressShape is the inverse of compressShape for a stored shape of
// numSamples samples.
func decompressShape(data []float64, numSamples int) []float64 {
	if len(data) == numSamples {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	var deriv []float64
	for i := 0; i < len(data); {
		if i+1 < len(data) && data[i] == data[i+1] {
			// Repeated pair: the next value is the extra-repeat count.
			extra := 0
			if i+2 < len(data) {
				extra = int(data[i+2])
			}
			for j := 0; j < 2+extra; j++ {
				deriv = append(deriv, data[i])
			}
			i += 3
		} else {
			deriv = append(deriv, data[i])
			i++
		}
	}

	out := make([]float64, 0, numSamples)
	acc := 0.0
	for _, d := range deriv {
		acc += d
		out = append(out, acc)
	}
	return out
}
