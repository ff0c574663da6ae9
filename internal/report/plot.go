// Package report renders validation artifacts for a curvature profile.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/curvature.report/internal/kinematics"
)

// PlotComparison writes a PNG line chart of the computed curvature profile
// against the ground-truth reference. reference may be nil (no reference
// line is drawn). Undefined samples leave gaps rather than plotting as
// zero. The x axis is seconds relative to the first sample.
func PlotComparison(outPath string, computed []kinematics.CurvatureSample, reference []float64) error {
	if len(computed) == 0 {
		return fmt.Errorf("no samples to plot")
	}
	if reference != nil && len(reference) != len(computed) {
		return fmt.Errorf("reference length %d does not match %d samples", len(reference), len(computed))
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	p := plot.New()
	p.Title.Text = "Roadway Curvature Profile"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Curvature (rad/m)"
	p.Add(plotter.NewGrid())

	origin := computed[0].Timestamp

	computedPts := make(plotter.XYs, 0, len(computed))
	for _, c := range computed {
		if !c.Defined() {
			continue
		}
		computedPts = append(computedPts, plotter.XY{X: c.Timestamp - origin, Y: c.Curvature})
	}
	computedLine, err := plotter.NewLine(computedPts)
	if err != nil {
		return err
	}
	computedLine.Color = color.RGBA{B: 255, A: 255}
	computedLine.Width = vg.Points(1)
	p.Add(computedLine)
	p.Legend.Add("computed", computedLine)

	if reference != nil {
		refPts := make(plotter.XYs, 0, len(reference))
		for i, v := range reference {
			if v != v { // NaN
				continue
			}
			refPts = append(refPts, plotter.XY{X: computed[i].Timestamp - origin, Y: v})
		}
		if len(refPts) > 0 {
			refLine, err := plotter.NewLine(refPts)
			if err != nil {
				return err
			}
			refLine.Color = color.RGBA{R: 255, A: 255}
			refLine.Width = vg.Points(1)
			refLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(refLine)
			p.Legend.Add("ground truth", refLine)
		}
	}

	if err := p.Save(12*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
