// Package db persists curvature analysis runs to SQLite. Each processed
// log becomes one row in runs plus its full curvature profile in
// profile_points, so past analyses can be listed and re-plotted without
// the source file.
package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/curvature.report/internal/kinematics"
)

// DB wraps the SQLite connection.
type DB struct {
	*sql.DB
}

// Run is one persisted analysis.
type Run struct {
	RunID      uuid.UUID
	SourcePath string
	ClipID     string // empty when the filename carried no clip UUID
	Stats      kinematics.Stats
	CreatedAt  time.Time
}

// ProfilePoint is one stored sample of a run's curvature profile.
type ProfilePoint struct {
	Timestamp float64
	Curvature float64 // NaN when the sample was undefined
	Reference float64 // NaN when no ground truth was available
}

// NewDB opens (creating if necessary) the run store at path and applies
// any pending migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db := &DB{conn}
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// RecordRun stores a run and its profile in one transaction. curvature and
// reference follow the motionlog conventions: reference may be nil,
// undefined values are NaN and stored as NULL.
func (db *DB) RecordRun(run Run, curvature []kinematics.CurvatureSample, reference []float64) error {
	if reference != nil && len(reference) != len(curvature) {
		return fmt.Errorf("reference length %d does not match %d curvature samples", len(reference), len(curvature))
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (
			run_id, source_path, clip_id, sample_count, defined_count,
			mean_curvature, stddev_curvature, min_curvature, max_curvature,
			abs_p50_curvature, abs_p95_curvature
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID.String(), run.SourcePath, run.ClipID,
		run.Stats.Samples, run.Stats.Defined,
		run.Stats.Mean, run.Stats.StdDev, run.Stats.Min, run.Stats.Max,
		run.Stats.AbsP50, run.Stats.AbsP95,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO profile_points (run_id, idx, timestamp, curvature, reference)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range curvature {
		ref := math.NaN()
		if reference != nil {
			ref = reference[i]
		}
		if _, err := stmt.Exec(run.RunID.String(), i, c.Timestamp, nullable(c.Curvature), nullable(ref)); err != nil {
			return fmt.Errorf("failed to insert profile point %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetRun fetches one run by ID.
func (db *DB) GetRun(id uuid.UUID) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, source_path, clip_id, sample_count, defined_count,
		       mean_curvature, stddev_curvature, min_curvature, max_curvature,
		       abs_p50_curvature, abs_p95_curvature, created_at
		FROM runs WHERE run_id = ?`, id.String())
	return scanRun(row)
}

// ListRuns returns all runs, most recent first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, source_path, clip_id, sample_count, defined_count,
		       mean_curvature, stddev_curvature, min_curvature, max_curvature,
		       abs_p50_curvature, abs_p95_curvature, created_at
		FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetProfile fetches a run's stored curvature profile in sample order.
func (db *DB) GetProfile(id uuid.UUID) ([]ProfilePoint, error) {
	rows, err := db.Query(`
		SELECT timestamp, curvature, reference
		FROM profile_points WHERE run_id = ? ORDER BY idx`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []ProfilePoint
	for rows.Next() {
		var p ProfilePoint
		var curv, ref sql.NullFloat64
		if err := rows.Scan(&p.Timestamp, &curv, &ref); err != nil {
			return nil, err
		}
		p.Curvature = fromNullable(curv)
		p.Reference = fromNullable(ref)
		points = append(points, p)
	}
	return points, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var rawID string
	err := row.Scan(&rawID, &r.SourcePath, &r.ClipID,
		&r.Stats.Samples, &r.Stats.Defined,
		&r.Stats.Mean, &r.Stats.StdDev, &r.Stats.Min, &r.Stats.Max,
		&r.Stats.AbsP50, &r.Stats.AbsP95, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if r.RunID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("malformed run_id %q: %w", rawID, err)
	}
	return &r, nil
}

// nullable maps the NaN undefined marker to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
