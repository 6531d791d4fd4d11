// Package session owns the live camera: the Inactive/Active state
// machine, the per-frame detection cycle and the violation cooldown.
//
// One Session exists per physical camera. Cycles are externally
// driven: stream consumers call RunCycle at their own cadence and the
// session serializes device access between them.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campusguard/dresswatch/internal/log"
	"gocv.io/x/gocv"
)

// Cooldown is the minimum gap between two forwarded violation batches
// on a live session. One continuously non-compliant subject must not
// flood the sink at frame rate.
const Cooldown = 5 * time.Second

// Session is the stateful live-camera detector.
type Session struct {
	pipe *Pipeline
	open func() (Device, error)

	// cycleMu serializes device access: one cycle at a time, and
	// Stop waits on it before releasing the device.
	cycleMu sync.Mutex

	// stateMu guards everything below. Readers always see a
	// complete snapshot, never a half-published cycle.
	stateMu       sync.RWMutex
	device        Device
	active        bool
	last          *CycleResult
	violations    int64
	lastViolation time.Time
}

// Status is the poll snapshot exposed to consumers.
type Status struct {
	Active         bool         `json:"active"`
	LastDetection  *CycleResult `json:"last_detection"`
	ViolationCount int64        `json:"violation_count"`
}

// New creates an inactive session. open acquires the capture device;
// it is called once per Start.
func New(pipe *Pipeline, open func() (Device, error)) *Session {
	return &Session{
		pipe: pipe,
		open: open,
	}
}

// Start acquires the device and activates the session. Starting an
// active session is a no-op. A fresh start resets the violation
// counter and clears the previous result; a failed start leaves the
// session inactive with no device reachable.
func (s *Session) Start() error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.stateMu.Lock()
	if s.active {
		s.stateMu.Unlock()
		return nil
	}
	s.stateMu.Unlock()

	dev, err := s.open()
	if err != nil {
		return fmt.Errorf("start camera: %w", err)
	}

	s.stateMu.Lock()
	s.device = dev
	s.active = true
	s.last = nil
	s.violations = 0
	s.lastViolation = time.Time{}
	s.stateMu.Unlock()

	log.Info("camera session started")
	return nil
}

// Stop deactivates the session and releases the device. Stopping an
// inactive session is a no-op. Safe to call while a cycle is in
// flight: the device is only closed once that cycle has finished.
// The last result and violation counter survive until the next Start.
func (s *Session) Stop() {
	s.stateMu.Lock()
	if !s.active {
		s.stateMu.Unlock()
		return
	}
	s.active = false
	dev := s.device
	s.device = nil
	s.stateMu.Unlock()

	// In-flight cycles hold cycleMu; wait them out before closing.
	s.cycleMu.Lock()
	if dev != nil {
		if err := dev.Close(); err != nil {
			log.Warn("camera release failed", "error", err)
		}
	}
	s.cycleMu.Unlock()

	log.Info("camera session stopped")
}

// Active reports whether the session is running.
func (s *Session) Active() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.active
}

// Last returns the most recent cycle result, or nil before the first
// completed cycle.
func (s *Session) Last() *CycleResult {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.last
}

// Violations returns the violation batch count for this activation.
func (s *Session) Violations() int64 {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.violations
}

// Snapshot returns the poll status with no side effects.
func (s *Session) Snapshot() Status {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return Status{
		Active:         s.active,
		LastDetection:  s.last,
		ViolationCount: s.violations,
	}
}

// RunCycle captures one frame and runs the full pipeline over it:
// detect, check compliance, annotate, throttle-record, publish. It
// returns false with no result when the session is inactive or the
// capture fails; neither is an error, the next cycle simply tries
// again. Cycles are serialized; concurrent callers take turns.
func (s *Session) RunCycle(studentID *int64) (*CycleResult, bool) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.stateMu.RLock()
	dev, active := s.device, s.active
	s.stateMu.RUnlock()
	if !active || dev == nil {
		return nil, false
	}

	frame := gocv.NewMat()
	defer frame.Close()
	if !dev.Read(&frame) || frame.Empty() {
		s.pipe.Metrics.CaptureError()
		return nil, false
	}

	res := s.pipe.Process(frame, s.throttledRecord(studentID))
	if res == nil {
		return nil, false
	}

	s.stateMu.Lock()
	if !s.active {
		// Stopped mid-cycle; drop the result so the pre-stop
		// snapshot stays observable.
		s.stateMu.Unlock()
		return nil, false
	}
	s.last = res
	s.stateMu.Unlock()

	return res, true
}

// throttledRecord applies the cooldown before forwarding violations.
// Within the cooldown the whole batch is suppressed: nothing reaches
// the sink and the counter does not move. The cooldown clock is shared
// across all subjects on the session.
func (s *Session) throttledRecord(studentID *int64) recordFunc {
	return func(missing []string, at time.Time) {
		s.stateMu.Lock()
		if !s.lastViolation.IsZero() && at.Sub(s.lastViolation) <= Cooldown {
			s.stateMu.Unlock()
			s.pipe.Metrics.ViolationSuppressed()
			return
		}
		s.lastViolation = at
		s.violations++
		s.stateMu.Unlock()

		s.pipe.Metrics.ViolationRecorded()
		s.pipe.appendViolations(context.Background(), studentID, missing, at)
	}
}
