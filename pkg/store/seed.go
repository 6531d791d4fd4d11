package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Dummy data pools for development databases.
var (
	seedAdmins = [][]string{
		{"security_admin", "password123", "Security"},
		{"osas_admin", "password123", "OSAS"},
		{"dean_admin", "password123", "Dean"},
		{"guidance_admin", "password123", "Guidance"},
	}

	seedRequirements = [][]string{
		{"Male", "Polo Shirt"},
		{"Male", "Black Pants"},
		{"Male", "Shoes"},
		{"Female", "Blouse"},
		{"Female", "Skirt"},
		{"Female", "Shoes"},
	}

	seedStudents = []struct {
		rfid, first, last, gender, course string
		year                              int
	}{
		{"RFID001", "John", "Doe", "Male", "Computer Science", 3},
		{"RFID002", "Jane", "Smith", "Female", "Information Technology", 2},
		{"RFID003", "Mike", "Johnson", "Male", "Engineering", 4},
		{"RFID004", "Sarah", "Williams", "Female", "Business Administration", 1},
		{"RFID005", "David", "Brown", "Male", "Computer Science", 2},
		{"RFID006", "Emily", "Davis", "Female", "Information Technology", 3},
		{"RFID007", "Chris", "Miller", "Male", "Engineering", 1},
		{"RFID008", "Ashley", "Wilson", "Female", "Business Administration", 4},
		{"RFID009", "James", "Moore", "Male", "Computer Science", 3},
		{"RFID010", "Jessica", "Taylor", "Female", "Information Technology", 2},
	}

	seedMissingItems = []string{"Polo Shirt", "Black Pants", "Shoes", "Blouse", "Skirt"}
	seedLocations    = []string{"Main Gate", "Building A", "Building B", "Cafeteria", "Library"}
	seedStatuses     = []string{"Pending", "Acknowledged", "Forwarded to OSAS", "Resolved"}
	seedNotes        = []string{
		"Student was advised about dress code policy",
		"First violation - verbal warning given",
		"Student showed understanding of requirements",
		"Follow-up meeting scheduled",
		"Parent contacted regarding repeated violations",
		"Student provided explanation for violation",
		"Referred to guidance counselor",
		"Violation resolved - student complied",
	}
)

// Seed loads the development data set: admins, requirements, students,
// 15 random violations over the last 30 days and 10 case notes.
func (s *Store) Seed(ctx context.Context) error {
	for _, a := range seedAdmins {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO admins (username, password, role) VALUES (?, ?, ?)`,
			a[0], a[1], a[2]); err != nil {
			return fmt.Errorf("store: seed admins: %w", err)
		}
	}

	for _, r := range seedRequirements {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO requirements (gender, item_name) VALUES (?, ?)`,
			r[0], r[1]); err != nil {
			return fmt.Errorf("store: seed requirements: %w", err)
		}
	}

	for _, st := range seedStudents {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO students (rfid_tag, first_name, last_name, gender, course, year_level)
			VALUES (?, ?, ?, ?, ?, ?)`,
			st.rfid, st.first, st.last, st.gender, st.course, st.year); err != nil {
			return fmt.Errorf("store: seed students: %w", err)
		}
	}

	studentIDs, err := s.ids(ctx, `SELECT student_id FROM students`)
	if err != nil {
		return err
	}

	for i := 0; i < 15; i++ {
		detectedAt := time.Now().AddDate(0, 0, -rand.Intn(31))
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO violations (student_id, missing_item, detected_at, location, status)
			VALUES (?, ?, ?, ?, ?)`,
			pick(studentIDs),
			pickStr(seedMissingItems),
			detectedAt,
			pickStr(seedLocations),
			pickStr(seedStatuses)); err != nil {
			return fmt.Errorf("store: seed violations: %w", err)
		}
	}

	violationIDs, err := s.ids(ctx, `SELECT violation_id FROM violations`)
	if err != nil {
		return err
	}
	adminIDs, err := s.ids(ctx, `SELECT admin_id FROM admins`)
	if err != nil {
		return err
	}

	for i := 0; i < 10; i++ {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO case_notes (violation_id, admin_id, note) VALUES (?, ?, ?)`,
			pick(violationIDs), pick(adminIDs), pickStr(seedNotes)); err != nil {
			return fmt.Errorf("store: seed case notes: %w", err)
		}
	}

	return nil
}

func (s *Store) ids(ctx context.Context, query string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func pick(ids []int64) int64 {
	return ids[rand.Intn(len(ids))]
}

func pickStr(vals []string) string {
	return vals[rand.Intn(len(vals))]
}
