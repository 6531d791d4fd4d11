// Package stream delivers camera session results to concurrent
// consumers: discrete JSON messages over a push connection and a
// continuous multipart MJPEG byte stream. Both adapters drive the same
// cycle function on the session; neither duplicates detection logic.
package stream

import (
	"time"

	"github.com/campusguard/dresswatch/pkg/detect"
	"github.com/campusguard/dresswatch/pkg/dresscode"
	"github.com/campusguard/dresswatch/pkg/session"
)

// Cadence is the fixed delay between cycles for a live consumer
// (10 cycles per second).
const Cadence = 100 * time.Millisecond

// Boundary is the multipart delimiter of the MJPEG stream.
const Boundary = "frame"

// Driver is the session surface the delivery adapters need.
// *session.Session implements it.
type Driver interface {
	Active() bool
	RunCycle(studentID *int64) (*session.CycleResult, bool)
	Last() *session.CycleResult
}

// Message is the discrete push payload, one per completed cycle.
type Message struct {
	Type       string             `json:"type"`
	Image      string             `json:"image"`
	Detections []detect.Detection `json:"detections"`
	Compliance dresscode.Result   `json:"compliance"`
	Timestamp  string             `json:"timestamp"`
}

// NewMessage builds the push payload for a cycle result.
func NewMessage(res *session.CycleResult) Message {
	return Message{
		Type:       "detection",
		Image:      res.Image,
		Detections: res.Detections,
		Compliance: res.Compliance,
		Timestamp:  res.Timestamp.Format(time.RFC3339Nano),
	}
}
