package store

import (
	"context"
	"fmt"
)

// Table definitions, created in dependency order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		admin_id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		student_id INT AUTO_INCREMENT PRIMARY KEY,
		rfid_tag VARCHAR(50) NOT NULL UNIQUE,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		gender ENUM('Male','Female') NOT NULL,
		course VARCHAR(100),
		year_level INT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS requirements (
		requirement_id INT AUTO_INCREMENT PRIMARY KEY,
		gender ENUM('Male','Female') NOT NULL,
		item_name VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS violations (
		violation_id INT AUTO_INCREMENT PRIMARY KEY,
		student_id INT NULL,
		missing_item VARCHAR(100) NOT NULL,
		detected_at DATETIME NOT NULL,
		location VARCHAR(100) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'Pending',
		FOREIGN KEY (student_id) REFERENCES students(student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS case_notes (
		note_id INT AUTO_INCREMENT PRIMARY KEY,
		violation_id INT NOT NULL,
		admin_id INT NOT NULL,
		note TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (violation_id) REFERENCES violations(violation_id),
		FOREIGN KEY (admin_id) REFERENCES admins(admin_id)
	)`,
}

// EnsureSchema creates all tables that do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: create table: %w", err)
		}
	}
	return nil
}
