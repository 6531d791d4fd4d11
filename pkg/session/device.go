package session

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Capture settings applied to the physical camera.
const (
	frameWidth  = 640
	frameHeight = 480
	frameRate   = 30
)

// Device is a capture source producing frames. The webcam
// implementation wraps gocv.VideoCapture; tests supply fakes.
type Device interface {
	// Read grabs the next frame into dst. Returns false when no
	// frame is available.
	Read(dst *gocv.Mat) bool

	// Close releases the device.
	Close() error
}

type webcam struct {
	cap *gocv.VideoCapture
}

// OpenWebcam acquires the capture device at index and configures the
// fixed resolution and frame rate.
func OpenWebcam(index int) (Device, error) {
	cap, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrDevice, index, err)
	}
	cap.Set(gocv.VideoCaptureFrameWidth, frameWidth)
	cap.Set(gocv.VideoCaptureFrameHeight, frameHeight)
	cap.Set(gocv.VideoCaptureFPS, frameRate)
	return &webcam{cap: cap}, nil
}

func (w *webcam) Read(dst *gocv.Mat) bool {
	return w.cap.Read(dst)
}

func (w *webcam) Close() error {
	return w.cap.Close()
}
