package kinematics

import "math"

// Unwrap removes 2*pi discontinuities from a sequence of angles in radians.
// It is a causal, single left-to-right pass: each output angle is the input
// angle shifted by the accumulated multiple of 2*pi that keeps every
// consecutive delta within (-pi, pi]. The first angle is returned as-is.
//
// The result is order-dependent: unwrapping a reversed sequence is not in
// general the reverse of the unwrapped sequence.
func Unwrap(angles []float64) []float64 {
	out := make([]float64, len(angles))
	if len(angles) == 0 {
		return out
	}
	out[0] = angles[0]
	offset := 0.0
	for i := 1; i < len(angles); i++ {
		delta := angles[i] - angles[i-1]
		if delta > math.Pi {
			offset -= 2 * math.Pi
		} else if delta <= -math.Pi {
			offset += 2 * math.Pi
		}
		out[i] = angles[i] + offset
	}
	return out
}
