package motionlog

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/curvature.report/internal/kinematics"
	"github.com/banshee-data/curvature.report/internal/testutil"
)

const sampleLog = `timestamp,qw,qx,qy,qz,vx,vy,vz,curvature
0,1,0,0,0,10,0,0,0.001
100000,0.99875026,0,0,0.049979169,10,0,0,0.002
200000,0.995004165,0,0,0.099833417,10,0,0,
`

func TestReadCSV_Basic(t *testing.T) {
	samples, reference, err := ReadCSV(strings.NewReader(sampleLog))
	testutil.AssertNoError(t, err)

	if len(samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(samples))
	}
	testutil.AssertInDelta(t, samples[1].Timestamp, 0.1, 1e-12)
	testutil.AssertInDelta(t, samples[1].Orientation.W, 0.99875026, 1e-12)
	testutil.AssertInDelta(t, samples[1].Orientation.Z, 0.049979169, 1e-12)
	testutil.AssertInDelta(t, samples[2].Velocity[0], 10, 1e-12)

	if reference == nil {
		t.Fatal("reference column not detected")
	}
	testutil.AssertInDelta(t, reference[0], 0.001, 1e-12)
	testutil.AssertNaN(t, reference[2]) // empty field
}

func TestReadCSV_ColumnOrderFree(t *testing.T) {
	reordered := `vz,vy,vx,qz,qy,qx,qw,timestamp
0,0,5,0,0,0,1,100000
0,0,5,0,0,0,1,200000
`
	samples, reference, err := ReadCSV(strings.NewReader(reordered))
	testutil.AssertNoError(t, err)
	if reference != nil {
		t.Error("no curvature column, reference should be nil")
	}
	testutil.AssertInDelta(t, samples[0].Timestamp, 0.1, 1e-12)
	testutil.AssertInDelta(t, samples[0].Velocity[0], 5, 1e-12)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("timestamp,qw,qx,qy,qz\n0,1,0,0,0\n"))
	testutil.AssertError(t, err)
}

func TestReadCSV_RaggedRow(t *testing.T) {
	ragged := "timestamp,qw,qx,qy,qz,vx,vy,vz\n0,1,0,0,0,1,0\n"
	_, _, err := ReadCSV(strings.NewReader(ragged))
	testutil.AssertError(t, err)
}

func TestReadCSV_BadValue(t *testing.T) {
	bad := "timestamp,qw,qx,qy,qz,vx,vy,vz\n0,one,0,0,0,1,0,0\n"
	_, _, err := ReadCSV(strings.NewReader(bad))
	testutil.AssertError(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	samples := []kinematics.MotionSample{
		{Timestamp: 0.0, Orientation: kinematics.FromYaw(0.0), Velocity: [3]float64{10, 0, 0}},
		{Timestamp: 0.1, Orientation: kinematics.FromYaw(0.1), Velocity: [3]float64{10, 0.5, 0}},
		{Timestamp: 0.2, Orientation: kinematics.FromYaw(0.2), Velocity: [3]float64{0, 0, 0}},
	}
	curvature := []kinematics.CurvatureSample{
		{Timestamp: 0.0, Curvature: 0.01},
		{Timestamp: 0.1, Curvature: 0.01},
		{Timestamp: 0.2, Curvature: kinematics.Undefined()},
	}
	reference := []float64{0.012, 0.011, math.NaN()}

	var buf bytes.Buffer
	testutil.AssertNoError(t, WriteCSV(&buf, samples, curvature, reference))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if header != "timestamp,qw,qx,qy,qz,vx,vy,vz,curvature,curvature_feature" {
		t.Fatalf("header = %q", header)
	}

	gotSamples, gotRef, err := ReadCSV(&buf)
	testutil.AssertNoError(t, err)

	if diff := cmp.Diff(samples, gotSamples, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("samples round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(reference, gotRef, cmpopts.EquateApprox(0, 1e-12), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("reference round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_NoReference(t *testing.T) {
	samples := []kinematics.MotionSample{
		{Timestamp: 0.0, Orientation: kinematics.FromYaw(0), Velocity: [3]float64{1, 0, 0}},
	}
	curvature := []kinematics.CurvatureSample{{Timestamp: 0.0, Curvature: 0}}

	var buf bytes.Buffer
	testutil.AssertNoError(t, WriteCSV(&buf, samples, curvature, nil))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if strings.Contains(header, ",curvature,") {
		t.Errorf("header %q should not carry a ground-truth column", header)
	}
	if !strings.HasSuffix(header, ColCurvatureFeature) {
		t.Errorf("header %q missing %s", header, ColCurvatureFeature)
	}
}

func TestWriteCSV_LengthMismatch(t *testing.T) {
	samples := []kinematics.MotionSample{{}, {}}
	curvature := []kinematics.CurvatureSample{{}}

	var buf bytes.Buffer
	testutil.AssertError(t, WriteCSV(&buf, samples, curvature, nil))
	testutil.AssertError(t, WriteCSV(&buf, samples, []kinematics.CurvatureSample{{}, {}}, []float64{1}))
}
