package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dla/internal/analysis"

	_ "modernc.org/sqlite" // SQLite driver
)

// Run is one catalogued aggregation run.
type Run struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Stickiness float64   `json:"stickiness"`
	Particles  int       `json:"particles"`
	Seed       int64     `json:"seed"`
	analysis.Summary
	Elapsed time.Duration `json:"elapsed_ns"`
	NPYPath string        `json:"npy_path,omitempty"`
	PNGPath string        `json:"png_path,omitempty"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Stickiness *float64
	Size       int
	Limit      int
}

// Store is a SQLite-backed run catalog. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open opens or creates the catalog at path. ":memory:" gives a private
// in-memory catalog.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory: %w", err)
			}
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	// One connection: SQLite has a single writer and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the location the store was opened with.
func (s *Store) Path() string { return s.path }

// Record inserts r and returns its row id. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			created_at, stickiness, size, particles, seed, occupied,
			crop_density, circle_density, neighbor_strength, max_radius,
			elapsed_ms, npy_path, png_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Stickiness, r.Size, r.Particles, r.Seed, r.Occupied,
		r.CropDensity, r.CircleDensity, r.NeighborStrength, r.MaxRadius,
		r.Elapsed.Milliseconds(), nullString(r.NPYPath), nullString(r.PNGPath),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// List returns catalogued runs, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT id, created_at, stickiness, size, particles, seed, occupied,
			crop_density, circle_density, neighbor_strength, max_radius,
			elapsed_ms, npy_path, png_path
		FROM runs WHERE 1=1`
	var args []any
	if f.Stickiness != nil {
		query += ` AND stickiness = ?`
		args = append(args, *f.Stickiness)
	}
	if f.Size > 0 {
		query += ` AND size = ?`
		args = append(args, f.Size)
	}
	query += ` ORDER BY id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			created   string
			elapsedMS int64
			npy, png  sql.NullString
		)
		if err := rows.Scan(&r.ID, &created, &r.Stickiness, &r.Size, &r.Particles, &r.Seed, &r.Occupied,
			&r.CropDensity, &r.CircleDensity, &r.NeighborStrength, &r.MaxRadius,
			&elapsedMS, &npy, &png); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %d: bad created_at %q: %w", r.ID, created, err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.NPYPath = npy.String
		r.PNGPath = png.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
