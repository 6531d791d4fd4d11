// Package store persists dress-code data in MySQL: violation records
// from the detection pipeline plus the student, admin and requirement
// tables the review side works from.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/campusguard/dresswatch/pkg/violation"
)

// Store wraps the MySQL connection pool.
type Store struct {
	db *sql.DB
}

// Open connects to MySQL and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Store{db: db}, nil
}

// Append inserts one violation record. Implements violation.Sink.
func (s *Store) Append(ctx context.Context, v violation.Violation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO violations (student_id, missing_item, detected_at, location, status)
		VALUES (?, ?, ?, ?, ?)`,
		v.StudentID, v.MissingItem, v.DetectedAt, v.Location, string(v.Status))
	if err != nil {
		return fmt.Errorf("store: insert violation: %w", err)
	}
	return nil
}

// RecentViolations returns up to limit violations, newest first.
func (s *Store) RecentViolations(ctx context.Context, limit int) ([]violation.Violation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT violation_id, student_id, missing_item, detected_at, location, status
		FROM violations
		ORDER BY detected_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query violations: %w", err)
	}
	defer rows.Close()

	var out []violation.Violation
	for rows.Next() {
		var v violation.Violation
		var status string
		if err := rows.Scan(&v.ID, &v.StudentID, &v.MissingItem, &v.DetectedAt, &v.Location, &status); err != nil {
			return nil, fmt.Errorf("store: scan violation: %w", err)
		}
		v.Status = violation.Status(status)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
