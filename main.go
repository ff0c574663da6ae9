// Command curvature.report derives instantaneous roadway curvature from a
// vehicle ego-motion log and writes it back out as a labeled column, along
// with validation artifacts (PNG comparison plot, persisted run record,
// optional HTML report server).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/banshee-data/curvature.report/internal/db"
	"github.com/banshee-data/curvature.report/internal/kinematics"
	"github.com/banshee-data/curvature.report/internal/monitor"
	"github.com/banshee-data/curvature.report/internal/motionlog"
	"github.com/banshee-data/curvature.report/internal/report"
	"github.com/banshee-data/curvature.report/internal/units"
)

const version = "0.2.0"

var (
	input        = flag.String("input", "", "Ego-motion log to process (.csv or .parquet)")
	output       = flag.String("output", "", "Output CSV path (input columns plus curvature_feature)")
	plotPath     = flag.String("plot", "", "Validation plot PNG path")
	dbPath       = flag.String("db", "", "SQLite run store path (runs are recorded when set)")
	listen       = flag.String("listen", "", "Serve recorded runs on this address instead of processing")
	speedUnits   = flag.String("units", units.MPS, "Display units for speeds: "+units.SpeedUnitsHelp())
	speedEpsilon = flag.Float64("speed-epsilon", kinematics.DefaultConfig().SpeedEpsilon, "Near-stationary speed threshold (m/s) below which curvature is undefined")
	eventThresh  = flag.Float64("event-threshold", 0.02, "Curvature magnitude (rad/m) that opens an event window (0 disables)")
	eventMinSecs = flag.Float64("event-min-duration", 1.0, "Minimum event window duration in seconds")
	printVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *printVersion {
		fmt.Println(version)
		return
	}

	if *listen != "" {
		if err := serve(); err != nil {
			log.Fatalf("serve failed: %v", err)
		}
		return
	}

	if *input == "" {
		log.Fatal("either -input or -listen is required")
	}
	if !units.IsValidSpeedUnit(*speedUnits) {
		log.Fatalf("invalid -units %q, accepted: %s", *speedUnits, units.SpeedUnitsHelp())
	}

	if err := process(); err != nil {
		log.Fatalf("processing failed: %v", err)
	}
}

// serve runs the HTTP report server over an existing run store until
// interrupted.
func serve() error {
	if *dbPath == "" {
		return fmt.Errorf("-db is required with -listen")
	}
	store, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return monitor.NewWebServer(*listen, store).Start(ctx)
}

func process() error {
	samples, reference, err := readLog(*input)
	if err != nil {
		return err
	}
	log.Printf("loaded %d samples from %s", len(samples), *input)

	cfg := kinematics.DefaultConfig()
	cfg.SpeedEpsilon = *speedEpsilon

	curvature, err := kinematics.ExtractCurvature(samples, cfg)
	if err != nil {
		return err
	}

	stats := kinematics.ProfileStats(curvature)
	log.Printf("curvature: %d/%d defined, mean=%.4g stddev=%.4g min=%.4g max=%.4g |p95|=%.4g rad/m",
		stats.Defined, stats.Samples, stats.Mean, stats.StdDev, stats.Min, stats.Max, stats.AbsP95)
	if len(samples) > 0 {
		mid := samples[len(samples)/2]
		log.Printf("mid-clip speed: %.2f %s", units.ConvertSpeed(mid.Speed(), *speedUnits), *speedUnits)
	}

	clipID := ""
	if id, err := motionlog.ClipID(*input); err == nil {
		clipID = id.String()
		log.Printf("matching camera clip: %s", motionlog.CameraFilename(id))
	}

	if *eventThresh > 0 {
		events := kinematics.DetectEvents(curvature, *eventThresh, *eventMinSecs)
		for _, e := range events {
			log.Printf("event: %.2fs - %.2fs (%.2fs), peak %.4g rad/m",
				e.StartOffset, e.EndOffset, e.Duration(), e.PeakCurvature)
		}
		if len(events) == 0 {
			log.Printf("no curvature events above %.4g rad/m", *eventThresh)
		}
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := motionlog.WriteCSV(f, samples, curvature, reference); err != nil {
			f.Close()
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("wrote %s", *output)
	}

	if *plotPath != "" {
		if err := report.PlotComparison(*plotPath, curvature, reference); err != nil {
			return fmt.Errorf("failed to render plot: %w", err)
		}
		log.Printf("wrote %s", *plotPath)
	}

	if *dbPath != "" {
		store, err := db.NewDB(*dbPath)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer store.Close()

		run := db.Run{
			RunID:      uuid.New(),
			SourcePath: *input,
			ClipID:     clipID,
			Stats:      stats,
		}
		if err := store.RecordRun(run, curvature, reference); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		log.Printf("recorded run %s", run.RunID)
	}

	return nil
}

// readLog dispatches on file extension: .parquet for raw dataset files,
// anything else is treated as CSV.
func readLog(path string) ([]kinematics.MotionSample, []float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return motionlog.ReadParquet(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return motionlog.ReadCSV(f)
}
