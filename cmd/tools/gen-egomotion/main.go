// Command gen-egomotion generates a synthetic ego-motion CSV for demos and
// manual testing: a straight run, a left curve, a right curve, then a
// stationary tail (which should come out undefined).
package main

import (
	"encoding/csv"
	"flag"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/banshee-data/curvature.report/internal/kinematics"
)

func main() {
	output := flag.String("o", "sample.egomotion.csv", "output path")
	hz := flag.Float64("hz", 10, "sample rate")
	speed := flag.Float64("speed", 15, "cruise speed (m/s)")
	yawRate := flag.Float64("yaw-rate", 0.3, "turn yaw rate (rad/s)")
	segmentSecs := flag.Float64("segment", 10, "seconds per segment")
	flag.Parse()

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "qw", "qx", "qy", "qz", "vx", "vy", "vz"}); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}

	dt := 1.0 / *hz
	perSegment := int(*segmentSecs * *hz)

	// Segment yaw rates: straight, left, right, stationary.
	rates := []float64{0, *yawRate, -*yawRate, 0}

	t := 0.0
	yaw := 0.0
	rows := 0
	for seg, rate := range rates {
		stationary := seg == len(rates)-1
		for i := 0; i < perSegment; i++ {
			q := kinematics.FromYaw(yaw)
			vx, vy := 0.0, 0.0
			if !stationary {
				vx = *speed * math.Cos(yaw)
				vy = *speed * math.Sin(yaw)
			}

			record := []string{
				strconv.FormatInt(int64(math.Round(t*1e6)), 10),
				format(q.W), format(q.X), format(q.Y), format(q.Z),
				format(vx), format(vy), format(0),
			}
			if err := w.Write(record); err != nil {
				log.Fatalf("failed to write row: %v", err)
			}
			rows++

			t += dt
			if !stationary {
				yaw += rate * dt
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed to flush: %v", err)
	}
	log.Printf("✓ Created: %s (%d rows)", *output, rows)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
