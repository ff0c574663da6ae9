package kinematics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a curvature profile. All statistics are computed over
// defined samples only; undefined (NaN) samples count toward Samples but
// not Defined.
type Stats struct {
	Samples int
	Defined int

	Mean   float64
	StdDev float64
	Min    float64
	Max    float64

	// AbsP50 and AbsP95 are percentiles of |kappa|, the "turn tightness"
	// figures quoted in reports.
	AbsP50 float64
	AbsP95 float64
}

// ProfileStats computes summary statistics for a curvature series.
// A profile with no defined samples yields zero-valued statistics.
func ProfileStats(samples []CurvatureSample) Stats {
	s := Stats{Samples: len(samples)}

	defined := make([]float64, 0, len(samples))
	for _, c := range samples {
		if c.Defined() {
			defined = append(defined, c.Curvature)
		}
	}
	s.Defined = len(defined)
	if len(defined) == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(defined, nil)
	if len(defined) == 1 {
		// stat.MeanStdDev returns NaN stddev for a single value
		s.StdDev = 0
	}
	s.Min = floats.Min(defined)
	s.Max = floats.Max(defined)

	abs := make([]float64, len(defined))
	for i, v := range defined {
		if v < 0 {
			abs[i] = -v
		} else {
			abs[i] = v
		}
	}
	sort.Float64s(abs)
	s.AbsP50 = stat.Quantile(0.50, stat.Empirical, abs, nil)
	s.AbsP95 = stat.Quantile(0.95, stat.Empirical, abs, nil)

	return s
}
