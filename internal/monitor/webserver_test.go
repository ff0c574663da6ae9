package monitor

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/curvature.report/internal/db"
	"github.com/banshee-data/curvature.report/internal/kinematics"
	"github.com/banshee-data/curvature.report/internal/testutil"
)

func newTestServer(t *testing.T) (*WebServer, db.Run) {
	t.Helper()

	store, err := db.NewDB(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	run := db.Run{
		RunID:      uuid.New(),
		SourcePath: "clip.egomotion.csv",
		Stats:      kinematics.Stats{Samples: 3, Defined: 2, Min: -0.05, Max: 0.01},
	}
	curvature := []kinematics.CurvatureSample{
		{Timestamp: 0.0, Curvature: -0.05},
		{Timestamp: 0.1, Curvature: 0.01},
		{Timestamp: 0.2, Curvature: kinematics.Undefined()},
	}
	require.NoError(t, store.RecordRun(run, curvature, nil))

	return NewWebServer("127.0.0.1:0", store), run
}

func TestHealthz(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := testutil.NewTestRecorder()
	ws.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/healthz"))

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
}

func TestListRuns(t *testing.T) {
	ws, run := newTestServer(t)

	rec := testutil.NewTestRecorder()
	ws.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/runs"))

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var got []runResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, run.RunID.String(), got[0].RunID)
	assert.Equal(t, 3, got[0].SampleCount)
	assert.Equal(t, 2, got[0].DefinedCount)
}

func TestGetRun(t *testing.T) {
	ws, run := newTestServer(t)

	rec := testutil.NewTestRecorder()
	ws.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/runs/"+run.RunID.String()))

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var got runResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, run.SourcePath, got.SourcePath)
	assert.Equal(t, -0.05, got.Min)
}

func TestGetRun_InvalidID(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := testutil.NewTestRecorder()
	ws.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/runs/not-a-uuid"))

	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestGetRun_Unknown(t *testing.T) {
	ws, _ := newTestServer(t)

	rec := testutil.NewTestRecorder()
	ws.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/runs/"+uuid.NewString()))

	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestRunChart(t *testing.T) {
	ws, run := newTestServer(t)

	rec := testutil.NewTestRecorder()
	ws.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/charts/runs/"+run.RunID.String()))

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.True(t, strings.Contains(rec.Body.String(), "Roadway Curvature Profile"))
}
