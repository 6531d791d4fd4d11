// Package metrics exposes pipeline counters on a dedicated prometheus
// registry, served by a small sidecar HTTP listener.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the detection pipeline counters. All methods are safe
// on a nil receiver so wiring stays optional in tests.
type Metrics struct {
	FramesProcessed      atomic.Uint64
	CaptureErrors        atomic.Uint64
	DetectionErrors      atomic.Uint64
	ViolationsRecorded   atomic.Uint64
	ViolationsSuppressed atomic.Uint64
	SinkErrors           atomic.Uint64

	PushConsumers atomic.Int64
	PullConsumers atomic.Int64

	// Last cycle duration in nanoseconds.
	CycleNanos atomic.Int64

	registry *prometheus.Registry
}

// New creates a Metrics instance with its collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.register()
	return m
}

func (m *Metrics) register() {
	counters := []struct {
		name, help string
		load       func() float64
	}{
		{"dresswatch_frames_processed_total", "Total frames run through the detection cycle",
			func() float64 { return float64(m.FramesProcessed.Load()) }},
		{"dresswatch_capture_errors_total", "Total failed frame captures",
			func() float64 { return float64(m.CaptureErrors.Load()) }},
		{"dresswatch_detection_errors_total", "Total failed model calls",
			func() float64 { return float64(m.DetectionErrors.Load()) }},
		{"dresswatch_violations_recorded_total", "Total violation batches forwarded to the sink",
			func() float64 { return float64(m.ViolationsRecorded.Load()) }},
		{"dresswatch_violations_suppressed_total", "Total violation batches suppressed by the cooldown",
			func() float64 { return float64(m.ViolationsSuppressed.Load()) }},
		{"dresswatch_sink_errors_total", "Total violation records the sink failed to persist",
			func() float64 { return float64(m.SinkErrors.Load()) }},
		{"dresswatch_push_consumers", "Currently connected websocket consumers",
			func() float64 { return float64(m.PushConsumers.Load()) }},
		{"dresswatch_pull_consumers", "Currently connected MJPEG consumers",
			func() float64 { return float64(m.PullConsumers.Load()) }},
		{"dresswatch_cycle_duration_seconds", "Duration of the most recent detection cycle",
			func() float64 { return float64(m.CycleNanos.Load()) / 1e9 }},
	}
	for _, c := range counters {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: c.name, Help: c.help},
			c.load,
		))
	}
}

// Handler returns the scrape endpoint for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts the metrics listener. Blocks; run in a goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}

// Nil-safe increment helpers used from the pipeline.

func (m *Metrics) FrameProcessed() {
	if m != nil {
		m.FramesProcessed.Add(1)
	}
}

func (m *Metrics) CaptureError() {
	if m != nil {
		m.CaptureErrors.Add(1)
	}
}

func (m *Metrics) DetectionError() {
	if m != nil {
		m.DetectionErrors.Add(1)
	}
}

func (m *Metrics) ViolationRecorded() {
	if m != nil {
		m.ViolationsRecorded.Add(1)
	}
}

func (m *Metrics) ViolationSuppressed() {
	if m != nil {
		m.ViolationsSuppressed.Add(1)
	}
}

func (m *Metrics) SinkError() {
	if m != nil {
		m.SinkErrors.Add(1)
	}
}

func (m *Metrics) PushConsumerAdd(n int64) {
	if m != nil {
		m.PushConsumers.Add(n)
	}
}

func (m *Metrics) PullConsumerAdd(n int64) {
	if m != nil {
		m.PullConsumers.Add(n)
	}
}

func (m *Metrics) CycleDuration(d time.Duration) {
	if m != nil {
		m.CycleNanos.Store(int64(d))
	}
}
