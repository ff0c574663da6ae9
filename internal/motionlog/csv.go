// Package motionlog reads and writes vehicle ego-motion logs. Logs are
// tabular, one row per time step, with timestamps in integer microseconds
// and orientation/velocity columns named qw,qx,qy,qz and vx,vy,vz. Some
// source logs also carry a ground-truth curvature column used for
// validation plots.
package motionlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/banshee-data/curvature.report/internal/kinematics"
)

// microsPerSecond converts the log's integer-microsecond timestamps to
// the seconds the extractor works in.
const microsPerSecond = 1e6

// Column names of an ego-motion log.
const (
	ColTimestamp = "timestamp"
	ColQW        = "qw"
	ColQX        = "qx"
	ColQY        = "qy"
	ColQZ        = "qz"
	ColVX        = "vx"
	ColVY        = "vy"
	ColVZ        = "vz"
	ColCurvature = "curvature"

	// ColCurvatureFeature is the derived column this tool appends.
	ColCurvatureFeature = "curvature_feature"
)

// ReadCSV parses an ego-motion log. The first row must be a header naming
// at least the timestamp, quaternion and velocity columns; column order is
// free. If a ground-truth curvature column is present its values are
// returned alongside the samples (NaN where the field is empty), otherwise
// reference is nil.
func ReadCSV(r io.Reader) (samples []kinematics.MotionSample, reference []float64, err error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{ColTimestamp, ColQW, ColQX, ColQY, ColQZ, ColVX, ColVY, ColVZ} {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}
	refIdx, hasRef := col[ColCurvature]

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) (float64, error) {
			v, err := strconv.ParseFloat(record[col[name]], 64)
			if err != nil {
				return 0, fmt.Errorf("line %d: invalid %s: %w", line, name, err)
			}
			return v, nil
		}

		var s kinematics.MotionSample
		ts, err := field(ColTimestamp)
		if err != nil {
			return nil, nil, err
		}
		s.Timestamp = ts / microsPerSecond

		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{ColQW, &s.Orientation.W},
			{ColQX, &s.Orientation.X},
			{ColQY, &s.Orientation.Y},
			{ColQZ, &s.Orientation.Z},
			{ColVX, &s.Velocity[0]},
			{ColVY, &s.Velocity[1]},
			{ColVZ, &s.Velocity[2]},
		} {
			v, err := field(f.name)
			if err != nil {
				return nil, nil, err
			}
			*f.dst = v
		}

		if hasRef {
			raw := record[refIdx]
			if raw == "" {
				reference = append(reference, math.NaN())
			} else {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: invalid %s: %w", line, ColCurvature, err)
				}
				reference = append(reference, v)
			}
		}

		samples = append(samples, s)
	}

	return samples, reference, nil
}

// WriteCSV writes an ego-motion log with the derived curvature_feature
// column appended. samples and curvature must be parallel; when reference
// is non-nil it must be parallel too and is written as the ground-truth
// curvature column. Undefined values are written as empty fields.
func WriteCSV(w io.Writer, samples []kinematics.MotionSample, curvature []kinematics.CurvatureSample, reference []float64) error {
	if len(curvature) != len(samples) {
		return fmt.Errorf("curvature length %d does not match %d samples", len(curvature), len(samples))
	}
	if reference != nil && len(reference) != len(samples) {
		return fmt.Errorf("reference length %d does not match %d samples", len(reference), len(samples))
	}

	cw := csv.NewWriter(w)

	header := []string{ColTimestamp, ColQW, ColQX, ColQY, ColQZ, ColVX, ColVY, ColVZ}
	if reference != nil {
		header = append(header, ColCurvature)
	}
	header = append(header, ColCurvatureFeature)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, s := range samples {
		record := []string{
			strconv.FormatInt(int64(math.Round(s.Timestamp*microsPerSecond)), 10),
			formatFloat(s.Orientation.W),
			formatFloat(s.Orientation.X),
			formatFloat(s.Orientation.Y),
			formatFloat(s.Orientation.Z),
			formatFloat(s.Velocity[0]),
			formatFloat(s.Velocity[1]),
			formatFloat(s.Velocity[2]),
		}
		if reference != nil {
			record = append(record, formatFloat(reference[i]))
		}
		record = append(record, formatFloat(curvature[i].Curvature))
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat renders a value for CSV output; NaN (the undefined marker)
// becomes an empty field.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
