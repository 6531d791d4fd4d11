package session

import (
	"context"
	"time"

	"github.com/campusguard/dresswatch/internal/log"
	"github.com/campusguard/dresswatch/pkg/annotate"
	"github.com/campusguard/dresswatch/pkg/detect"
	"github.com/campusguard/dresswatch/pkg/dresscode"
	"github.com/campusguard/dresswatch/pkg/metrics"
	"github.com/campusguard/dresswatch/pkg/violation"
	"gocv.io/x/gocv"
)

// Locations stamped on violation records by the two entry points.
const (
	UploadLocation = "Web Detection"
	LiveLocation   = "Live Camera"
)

// CycleResult is the outcome of one detection cycle. Exactly one
// instance is current per session; newer instances replace older ones
// wholesale. It is immutable once published.
type CycleResult struct {
	Detections []detect.Detection `json:"detections"`
	Compliance dresscode.Result   `json:"compliance"`
	Image      string             `json:"image"`
	JPEG       []byte             `json:"-"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Pipeline runs the detect, comply, annotate, record sequence over a
// single frame. One Pipeline serves both the live camera session and
// one-shot uploads; only the violation recording policy differs
// between the two.
type Pipeline struct {
	Detector  detect.Detector
	Threshold float64
	Sink      violation.Sink
	Location  string
	Metrics   *metrics.Metrics

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// recordFunc receives the missing items of a non-compliant frame
// together with the frame timestamp.
type recordFunc func(missing []string, at time.Time)

// Process runs one full cycle over the frame. A failed model call
// degrades to zero detections; the cycle still produces a result. A
// nil return means the frame could not be encoded.
func (p *Pipeline) Process(frame gocv.Mat, record recordFunc) *CycleResult {
	start := time.Now()
	defer func() { p.Metrics.CycleDuration(time.Since(start)) }()

	at := p.now()

	dets, err := p.Detector.Detect(frame)
	if err != nil {
		log.Warn("detection failed, treating frame as empty", "error", err)
		p.Metrics.DetectionError()
		dets = nil
	}

	// Threshold applied once; compliance and annotation must agree
	// on the item set.
	dets = detect.Confident(dets, p.Threshold)

	classes := detect.Classes(dets)
	gender := dresscode.ClassifyGender(classes)
	compliance := dresscode.CheckCompliance(classes, gender)

	annotated := annotate.Annotate(frame, dets)
	defer annotated.Close()

	jpeg, err := annotate.EncodeJPEG(annotated, annotate.JPEGQuality)
	if err != nil {
		log.Error("frame encode failed", "error", err)
		return nil
	}

	if !compliance.IsCompliant && record != nil {
		record(compliance.MissingItems, at)
	}

	p.Metrics.FrameProcessed()

	return &CycleResult{
		Detections: dets,
		Compliance: compliance,
		Image:      annotate.DataURI(jpeg),
		JPEG:       jpeg,
		Timestamp:  at,
	}
}

// Evaluate runs the pipeline over a single uploaded image. No session
// state is involved and no cooldown applies: every non-compliant call
// records its violations.
func (p *Pipeline) Evaluate(ctx context.Context, frame gocv.Mat, studentID *int64) *CycleResult {
	return p.Process(frame, func(missing []string, at time.Time) {
		p.Metrics.ViolationRecorded()
		p.appendViolations(ctx, studentID, missing, at)
	})
}

// appendViolations forwards one record per missing item. Sink failures
// are logged and swallowed; they never abort a cycle.
func (p *Pipeline) appendViolations(ctx context.Context, studentID *int64, missing []string, at time.Time) {
	if p.Sink == nil {
		return
	}
	for _, item := range missing {
		err := p.Sink.Append(ctx, violation.Violation{
			StudentID:   studentID,
			MissingItem: item,
			DetectedAt:  at,
			Location:    p.Location,
			Status:      violation.StatusPending,
		})
		if err != nil {
			log.Error("violation record failed", "missing_item", item, "error", err)
			p.Metrics.SinkError()
		}
	}
	log.Info("violation recorded", "missing", missing, "location", p.Location)
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
