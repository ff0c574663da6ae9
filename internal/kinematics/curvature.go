// Package kinematics derives roadway curvature from raw vehicle ego-motion
// samples (orientation quaternions, velocity vectors, timestamps).
//
// Curvature kappa is the reciprocal of the local turn radius, signed by turn
// direction, in units of 1/m. It is computed as yaw rate divided by speed:
// the heading is projected out of each orientation quaternion, unwrapped to
// a continuous signal, differentiated with respect to time, and divided by
// the instantaneous speed. The sign of kappa follows the sign of the
// unwrapped-heading slope: negative kappa means the heading is decreasing.
package kinematics

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/curvature.report/internal/monitoring"
)

// ErrInsufficientSamples is returned when a sequence is too short to
// differentiate. No partial output is produced.
var ErrInsufficientSamples = errors.New("kinematics: need at least 2 samples")

// MotionSample is one row of an ego-motion log.
type MotionSample struct {
	// Timestamp in seconds from an arbitrary epoch. Sequences must be
	// ordered by non-decreasing timestamp.
	Timestamp float64

	// Orientation is the vehicle attitude at Timestamp. Expected unit-norm;
	// off-unit quaternions are renormalized (see Config.NormTolerance).
	Orientation Quaternion

	// Velocity is the vehicle velocity vector (m/s) in a fixed frame.
	Velocity [3]float64
}

// Speed returns the Euclidean norm of the velocity vector.
func (m MotionSample) Speed() float64 {
	v := m.Velocity
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// CurvatureSample is one element of the derived curvature series.
type CurvatureSample struct {
	// Timestamp is copied from the corresponding MotionSample.
	Timestamp float64

	// Curvature in rad/m (equivalently 1/m). NaN marks a sample where no
	// estimate exists (near-stationary vehicle, zero time delta, or
	// degenerate orientation). NaN must never be read as zero curvature.
	Curvature float64
}

// Defined reports whether the sample carries a usable curvature estimate.
func (c CurvatureSample) Defined() bool {
	return !math.IsNaN(c.Curvature)
}

// Config holds the tunables of curvature extraction.
type Config struct {
	// SpeedEpsilon is the near-stationary speed threshold (m/s). Below it
	// curvature is undefined at that sample rather than spuriously large.
	SpeedEpsilon float64

	// NormTolerance is the allowed deviation of a quaternion norm from 1
	// before the quaternion is renormalized and the deviation reported.
	NormTolerance float64
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() Config {
	return Config{
		SpeedEpsilon:  0.01, // 1 cm/s
		NormTolerance: 1e-6,
	}
}

// Undefined is the per-sample marker for "no curvature estimate available
// at this instant".
func Undefined() float64 { return math.NaN() }

// ExtractCurvature computes the curvature series for an ordered ego-motion
// sequence. The output has the same length as the input, with timestamps
// copied through.
//
// Interior samples use a central difference of the unwrapped heading
// (average of the forward and backward slopes); the two boundary samples
// use a one-sided difference. For exactly two samples both outputs carry
// the same single slope estimate.
//
// Fails with ErrInsufficientSamples for fewer than two samples. Per-sample
// degeneracies never fail the call: a zero time delta across the difference
// window, a speed below cfg.SpeedEpsilon, or a zero-norm orientation mark
// that sample undefined (NaN) and extraction continues. A degenerate sample
// never contributes a heading to its neighbors' estimates: adjacent samples
// fall back to their surviving one-sided slope.
func ExtractCurvature(samples []MotionSample, cfg Config) ([]CurvatureSample, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInsufficientSamples, len(samples))
	}

	headings := make([]float64, len(samples))
	valid := make([]bool, len(samples))
	renormalized := 0
	maxDeviation := 0.0
	for i, s := range samples {
		q := s.Orientation
		n := q.Norm()
		if n == 0 {
			continue
		}
		if dev := math.Abs(n - 1); dev > cfg.NormTolerance {
			q = q.Normalize()
			renormalized++
			if dev > maxDeviation {
				maxDeviation = dev
			}
		}
		headings[i] = q.Yaw()
		valid[i] = true
	}
	if renormalized > 0 {
		monitoring.Logf("kinematics: renormalized %d of %d orientations (max norm deviation %.3g)",
			renormalized, len(samples), maxDeviation)
	}

	unwrapped := unwrapValid(headings, valid)

	out := make([]CurvatureSample, len(samples))
	for i := range samples {
		out[i] = CurvatureSample{Timestamp: samples[i].Timestamp, Curvature: Undefined()}
		if !valid[i] {
			continue
		}

		speed := samples[i].Speed()
		if speed < cfg.SpeedEpsilon {
			continue
		}

		rate, ok := yawRateAt(unwrapped, valid, samples, i)
		if !ok {
			continue
		}
		out[i].Curvature = rate / speed
	}
	return out, nil
}

// unwrapValid unwraps the heading series over the valid indices only, so a
// degenerate sample contributes no fake angle to the running offset. Entries
// at invalid indices are meaningless and must not be read.
func unwrapValid(headings []float64, valid []bool) []float64 {
	idx := make([]int, 0, len(headings))
	vals := make([]float64, 0, len(headings))
	for i, ok := range valid {
		if ok {
			idx = append(idx, i)
			vals = append(vals, headings[i])
		}
	}
	unwrapped := Unwrap(vals)

	out := make([]float64, len(headings))
	for k, i := range idx {
		out[i] = unwrapped[k]
	}
	return out
}

// yawRateAt returns the discrete time derivative of the unwrapped heading
// at index i: a central difference at interior samples, one-sided at the
// boundaries. ok is false when no leg of the difference window survives
// (zero time span or a degenerate neighbor).
func yawRateAt(unwrapped []float64, valid []bool, samples []MotionSample, i int) (rate float64, ok bool) {
	switch {
	case i == 0:
		return slope(unwrapped, valid, samples, 0, 1)
	case i == len(samples)-1:
		return slope(unwrapped, valid, samples, i-1, i)
	default:
		back, okB := slope(unwrapped, valid, samples, i-1, i)
		fwd, okF := slope(unwrapped, valid, samples, i, i+1)
		if okB && okF {
			return (back + fwd) / 2, true
		}
		// One leg of the window collapsed (zero time or degenerate
		// neighbor); fall back to the surviving one-sided slope.
		if okB {
			return back, true
		}
		if okF {
			return fwd, true
		}
		return 0, false
	}
}

func slope(unwrapped []float64, valid []bool, samples []MotionSample, a, b int) (float64, bool) {
	if !valid[a] || !valid[b] {
		return 0, false
	}
	dt := samples[b].Timestamp - samples[a].Timestamp
	if dt <= 0 {
		return 0, false
	}
	return (unwrapped[b] - unwrapped[a]) / dt, true
}
