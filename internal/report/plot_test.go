package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/curvature.report/internal/kinematics"
	"github.com/banshee-data/curvature.report/internal/testutil"
)

func testProfile(n int) []kinematics.CurvatureSample {
	out := make([]kinematics.CurvatureSample, n)
	for i := range out {
		out[i] = kinematics.CurvatureSample{
			Timestamp: float64(i) * 0.1,
			Curvature: 0.05 * math.Sin(float64(i)*0.2),
		}
	}
	return out
}

func TestPlotComparison_WritesPNG(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "plots", "profile.png")
	computed := testProfile(50)
	computed[10].Curvature = kinematics.Undefined() // must not break the line plot

	reference := make([]float64, len(computed))
	for i := range reference {
		reference[i] = 0.05 * math.Sin(float64(i)*0.2+0.05)
	}
	reference[3] = math.NaN()

	testutil.AssertNoError(t, PlotComparison(outPath, computed, reference))

	info, err := os.Stat(outPath)
	testutil.AssertNoError(t, err)
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestPlotComparison_NoReference(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "profile.png")
	testutil.AssertNoError(t, PlotComparison(outPath, testProfile(10), nil))

	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("plot file missing: %v", err)
	}
}

func TestPlotComparison_Errors(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "profile.png")

	testutil.AssertError(t, PlotComparison(outPath, nil, nil))
	testutil.AssertError(t, PlotComparison(outPath, testProfile(5), []float64{1, 2}))
}
