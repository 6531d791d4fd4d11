// Package violation defines dress-code violation records and the sink
// they are appended to.
//
// The detection pipeline only appends Pending records; acknowledgement
// and resolution belong to the review side and never flow back into
// the pipeline.
package violation

import (
	"context"
	"time"
)

// Status is the review state of a violation.
type Status string

// Review states. Only StatusPending is written by the pipeline.
const (
	StatusPending      Status = "Pending"
	StatusAcknowledged Status = "Acknowledged"
	StatusForwarded    Status = "Forwarded to OSAS"
	StatusResolved     Status = "Resolved"
)

// Violation is one missing-item record for staff review.
type Violation struct {
	ID          int64     `json:"violation_id,omitempty"`
	StudentID   *int64    `json:"student_id"`
	MissingItem string    `json:"missing_item"`
	DetectedAt  time.Time `json:"detected_at"`
	Location    string    `json:"location"`
	Status      Status    `json:"status"`
}

// Sink receives violation records. Implementations must tolerate
// failure: the pipeline logs and swallows append errors, it never
// aborts a detection cycle over them.
type Sink interface {
	Append(ctx context.Context, v Violation) error
}
