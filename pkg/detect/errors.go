package detect

import "errors"

var (
	// ErrInference is returned when the underlying model call fails.
	// A frame that fails inference is treated as having no detections.
	ErrInference = errors.New("detect: inference failed")

	// ErrEmptyFrame is returned when the input frame has no pixels.
	ErrEmptyFrame = errors.New("detect: empty frame")

	// ErrModelNotFound is returned when the model file does not exist.
	ErrModelNotFound = errors.New("detect: model file not found")
)
