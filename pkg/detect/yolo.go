package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/campusguard/dresswatch/pkg/dresscode"
	"gocv.io/x/gocv"
)

// Candidate floor for NMS input. The compliance pipeline applies its
// own, higher threshold once per frame.
const candidateScore = 0.25

// YOLODetector runs a YOLOv8 clothing model through OpenCV's DNN module.
type YOLODetector struct {
	net    gocv.Net
	config Config
	mu     sync.Mutex // Protects inference
}

// NewYOLO loads the ONNX model and prepares it for CPU inference.
func NewYOLO(cfg Config) (*YOLODetector, error) {
	if cfg.InputSize == 0 {
		cfg.InputSize = DefaultConfig().InputSize
	}
	if cfg.NMSThresh == 0 {
		cfg.NMSThresh = DefaultConfig().NMSThresh
	}

	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: could not load %s", ErrModelNotFound, cfg.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:    net,
		config: cfg,
	}, nil
}

// Detect runs the model on the frame and returns all candidate
// detections after non-maximum suppression. Boxes are in pixel
// coordinates of the input frame.
func (d *YOLODetector) Detect(frame gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame.Empty() {
		return nil, ErrEmptyFrame
	}

	imgW := float64(frame.Cols())
	imgH := float64(frame.Rows())
	input := float64(d.config.InputSize)

	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(d.config.InputSize, d.config.InputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	if output.Empty() {
		return nil, fmt.Errorf("%w: model produced no output", ErrInference)
	}

	// YOLOv8 output is [1, 4+classes, anchors]: rows 0-3 are the
	// center-based box, the rest are per-class scores.
	size := output.Size()
	if len(size) != 3 || size[1] < 5 {
		return nil, fmt.Errorf("%w: unexpected output shape %v", ErrInference, size)
	}
	rows := size[1]
	anchors := size[2]

	flat := output.Reshape(1, rows)
	defer flat.Close()

	var (
		boxes   []image.Rectangle
		scores  []float32
		classes []int
	)
	for a := 0; a < anchors; a++ {
		bestClass := -1
		bestScore := float32(0)
		for c := 4; c < rows; c++ {
			if s := flat.GetFloatAt(c, a); s > bestScore {
				bestScore = s
				bestClass = c - 4
			}
		}
		if bestScore < candidateScore {
			continue
		}

		cx := float64(flat.GetFloatAt(0, a)) * imgW / input
		cy := float64(flat.GetFloatAt(1, a)) * imgH / input
		w := float64(flat.GetFloatAt(2, a)) * imgW / input
		h := float64(flat.GetFloatAt(3, a)) * imgH / input

		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		))
		scores = append(scores, bestScore)
		classes = append(classes, bestClass)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, candidateScore, float32(d.config.NMSThresh))

	detections := make([]Detection, 0, len(keep))
	for _, i := range keep {
		name := dresscode.ClassName(classes[i])
		detections = append(detections, Detection{
			ClassID:     classes[i],
			ClassName:   name,
			DisplayName: dresscode.DisplayName(name),
			Confidence:  float64(scores[i]),
			Box:         boxes[i].Canon(),
		})
	}
	return detections, nil
}

// Close releases the network.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
