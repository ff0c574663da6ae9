// Package monitor serves processed curvature runs over HTTP: JSON endpoints
// for run metadata and an HTML chart per run for eyeballing profiles.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/curvature.report/internal/db"
)

// WebServer handles the HTTP interface over the run store.
type WebServer struct {
	address string
	db      *db.DB
	server  *http.Server
}

// NewWebServer creates a web server bound to the given address.
func NewWebServer(address string, database *db.DB) *WebServer {
	ws := &WebServer{
		address: address,
		db:      database,
	}
	ws.server = &http.Server{
		Addr:    address,
		Handler: ws.ServeMux(),
	}
	return ws
}

// ServeMux returns the route table, exposed separately so tests can drive
// handlers without binding a port.
func (ws *WebServer) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", ws.handleHealth)
	mux.HandleFunc("GET /api/runs", ws.handleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", ws.handleGetRun)
	mux.HandleFunc("GET /charts/runs/{id}", ws.handleRunChart)
	return mux
}

// Start begins serving and blocks until ctx is cancelled, then shuts the
// server down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("report server listening on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ws.server.Shutdown(shutdownCtx)
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, map[string]string{"status": "ok"})
}

// runResponse is the JSON shape of one run. Undefined floats are nulled
// via pointers so consumers never mistake NaN handling for zero.
type runResponse struct {
	RunID        string    `json:"run_id"`
	SourcePath   string    `json:"source_path"`
	ClipID       string    `json:"clip_id,omitempty"`
	SampleCount  int       `json:"sample_count"`
	DefinedCount int       `json:"defined_count"`
	Mean         float64   `json:"mean_curvature"`
	StdDev       float64   `json:"stddev_curvature"`
	Min          float64   `json:"min_curvature"`
	Max          float64   `json:"max_curvature"`
	AbsP50       float64   `json:"abs_p50_curvature"`
	AbsP95       float64   `json:"abs_p95_curvature"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRunResponse(r db.Run) runResponse {
	return runResponse{
		RunID:        r.RunID.String(),
		SourcePath:   r.SourcePath,
		ClipID:       r.ClipID,
		SampleCount:  r.Stats.Samples,
		DefinedCount: r.Stats.Defined,
		Mean:         r.Stats.Mean,
		StdDev:       r.Stats.StdDev,
		Min:          r.Stats.Min,
		Max:          r.Stats.Max,
		AbsP50:       r.Stats.AbsP50,
		AbsP95:       r.Stats.AbsP95,
		CreatedAt:    r.CreatedAt,
	}
}

func (ws *WebServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := ws.db.ListRuns()
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]runResponse, len(runs))
	for i, run := range runs {
		out[i] = toRunResponse(run)
	}
	ws.writeJSON(w, out)
}

func (ws *WebServer) runFromRequest(w http.ResponseWriter, r *http.Request) *db.Run {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return nil
	}
	run, err := ws.db.GetRun(id)
	if err != nil {
		ws.writeJSONError(w, http.StatusNotFound, "no such run")
		return nil
	}
	return run
}

func (ws *WebServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run := ws.runFromRequest(w, r)
	if run == nil {
		return
	}
	ws.writeJSON(w, toRunResponse(*run))
}

// definedOnly filters NaN out of a stored profile column for charting.
func definedOnly(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
