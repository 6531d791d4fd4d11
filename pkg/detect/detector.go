// Package detect provides clothing-item detection for dress-code checks.
//
// The Detector interface wraps the external object-detection model. The
// production implementation runs a YOLOv8 ONNX network through GoCV; a
// Mock is provided for tests.
package detect

import (
	"encoding/json"
	"image"

	"gocv.io/x/gocv"
)

// Detection is one detected clothing item in a frame.
type Detection struct {
	ClassID     int
	ClassName   string
	DisplayName string
	Confidence  float64
	Box         image.Rectangle
}

// MarshalJSON emits the wire shape consumed by the detection pages:
// {"class": display name, "confidence": float, "bbox": [x1,y1,x2,y2]}.
func (d Detection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Class      string  `json:"class"`
		Confidence float64 `json:"confidence"`
		Bbox       [4]int  `json:"bbox"`
	}{
		Class:      d.DisplayName,
		Confidence: d.Confidence,
		Bbox:       [4]int{d.Box.Min.X, d.Box.Min.Y, d.Box.Max.X, d.Box.Max.Y},
	})
}

// Detector is the interface for clothing detection backends.
type Detector interface {
	// Detect finds clothing items in the frame. A failed model call
	// returns an error wrapping ErrInference; callers treat that as
	// zero detections for the frame and keep going.
	Detect(frame gocv.Mat) ([]Detection, error)

	// Close releases resources.
	Close() error
}

// Config holds detector configuration.
type Config struct {
	ModelPath string  // Path to ONNX model
	InputSize int     // Square model input size (default 640)
	NMSThresh float64 // Non-maximum-suppression IoU threshold
}

// DefaultConfig returns production defaults for the YOLOv8 clothing model.
func DefaultConfig() Config {
	return Config{
		ModelPath: "models/best.onnx",
		InputSize: 640,
		NMSThresh: 0.45,
	}
}

// Confident filters detections to those strictly above the confidence
// threshold. The pipeline applies this exactly once per frame so the
// compliance check and the annotator always see the same item set.
func Confident(dets []Detection, threshold float64) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence > threshold {
			out = append(out, d)
		}
	}
	return out
}

// Classes returns the model class names of the detections, in
// detection order.
func Classes(dets []Detection) []string {
	classes := make([]string, len(dets))
	for i, d := range dets {
		classes[i] = d.ClassName
	}
	return classes
}
