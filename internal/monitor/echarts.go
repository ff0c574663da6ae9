package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleRunChart renders a run's stored curvature profile as an HTML line
// chart. Undefined samples become gaps, not zeros.
func (ws *WebServer) handleRunChart(w http.ResponseWriter, r *http.Request) {
	run := ws.runFromRequest(w, r)
	if run == nil {
		return
	}

	points, err := ws.db.GetProfile(run.RunID)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(points) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "run has no stored profile")
		return
	}

	origin := points[0].Timestamp
	xAxis := make([]string, len(points))
	computed := make([]opts.LineData, len(points))
	reference := make([]opts.LineData, len(points))
	hasReference := false
	for i, p := range points {
		xAxis[i] = fmt.Sprintf("%.2f", p.Timestamp-origin)
		if v, ok := definedOnly(p.Curvature); ok {
			computed[i] = opts.LineData{Value: v}
		} else {
			computed[i] = opts.LineData{Value: "-"}
		}
		if v, ok := definedOnly(p.Reference); ok {
			reference[i] = opts.LineData{Value: v}
			hasReference = true
		} else {
			reference[i] = opts.LineData{Value: "-"}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Curvature Profile",
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Roadway Curvature Profile",
			Subtitle: fmt.Sprintf("run=%s source=%s samples=%d", run.RunID, run.SourcePath, run.Stats.Samples),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Curvature (rad/m)"}),
	)

	line.SetXAxis(xAxis).
		AddSeries("computed", computed)
	if hasReference {
		line.AddSeries("ground truth", reference,
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
