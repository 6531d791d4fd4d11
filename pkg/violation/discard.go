package violation

import (
	"context"

	"github.com/campusguard/dresswatch/internal/log"
)

// Discard is a Sink that logs what it would have recorded. The server
// falls back to it when the database is unreachable, so detection keeps
// running without persistence.
type Discard struct{}

// Append logs the violation and drops it.
func (Discard) Append(ctx context.Context, v Violation) error {
	log.Warn("database unavailable, dropping violation",
		"missing_item", v.MissingItem,
		"location", v.Location)
	return nil
}
