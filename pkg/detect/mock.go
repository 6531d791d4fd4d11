package detect

import (
	"sync"

	"gocv.io/x/gocv"
)

// Mock implements Detector for testing.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, Detections and Err are returned as-is.
	DetectFunc func(frame gocv.Mat) ([]Detection, error)

	// Detections returned by the default Detect.
	Detections []Detection

	// Err returned by the default Detect.
	Err error

	mu    sync.Mutex
	calls int
}

// Detect returns the configured detections or error.
func (m *Mock) Detect(frame gocv.Mat) ([]Detection, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(frame)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Detections, nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
