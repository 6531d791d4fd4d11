// Seed creates the dresswatch schema and loads the development data
// set: admins, requirements, students, violations and case notes.
package main

import (
	"context"
	"os"
	"time"

	"github.com/campusguard/dresswatch/internal/config"
	"github.com/campusguard/dresswatch/internal/log"
	"github.com/campusguard/dresswatch/pkg/store"
)

func main() {
	log.Init(config.LogLevel())

	db := config.Database()
	s, err := store.Open(db.DSN())
	if err != nil {
		log.Error("could not connect to MySQL", "host", db.Host, "database", db.Name, "error", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.EnsureSchema(ctx); err != nil {
		log.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	log.Info("schema ready", "database", db.Name)

	if err := s.Seed(ctx); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("dummy data loaded",
		"admins", 4,
		"requirements", 6,
		"students", 10,
		"violations", 15,
		"case_notes", 10)
}
