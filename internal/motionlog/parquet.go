package motionlog

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/banshee-data/curvature.report/internal/kinematics"
)

// egomotionRow mirrors one row of a raw .egomotion.parquet file.
type egomotionRow struct {
	Timestamp int64   `parquet:"timestamp"`
	QW        float64 `parquet:"qw"`
	QX        float64 `parquet:"qx"`
	QY        float64 `parquet:"qy"`
	QZ        float64 `parquet:"qz"`
	VX        float64 `parquet:"vx"`
	VY        float64 `parquet:"vy"`
	VZ        float64 `parquet:"vz"`
	Curvature float64 `parquet:"curvature,optional"`
}

// ReadParquet reads a raw ego-motion Parquet file. The returned reference
// series holds the file's ground-truth curvature column when present,
// otherwise nil. Presence is decided by the file schema, so an all-zero
// reference column is still returned.
func ReadParquet(path string) (samples []kinematics.MotionSample, reference []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat parquet file %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	_, hasRef := pf.Schema().Lookup("curvature")

	rows, err := parquet.Read[egomotionRow](f, info.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}

	samples = make([]kinematics.MotionSample, len(rows))
	ref := make([]float64, len(rows))
	for i, row := range rows {
		samples[i] = kinematics.MotionSample{
			Timestamp: float64(row.Timestamp) / microsPerSecond,
			Orientation: kinematics.Quaternion{
				W: row.QW, X: row.QX, Y: row.QY, Z: row.QZ,
			},
			Velocity: [3]float64{row.VX, row.VY, row.VZ},
		}
		ref[i] = row.Curvature
	}
	if hasRef {
		reference = ref
	}
	return samples, reference, nil
}
