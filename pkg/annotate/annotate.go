// Package annotate draws detection overlays and encodes frames for
// display.
package annotate

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/campusguard/dresswatch/pkg/detect"
	"gocv.io/x/gocv"
)

// JPEGQuality is the encode quality for streamed and returned frames.
const JPEGQuality = 80

var (
	boxColor   = color.RGBA{G: 255}
	labelColor = color.RGBA{}
)

// Annotate returns a copy of the frame with a rectangle and a filled
// label tag drawn for each detection. The input frame is never
// modified; callers may still stream or store it unannotated. The
// caller owns the returned Mat and must Close it.
func Annotate(frame gocv.Mat, dets []detect.Detection) gocv.Mat {
	annotated := frame.Clone()

	for _, d := range dets {
		gocv.Rectangle(&annotated, d.Box, boxColor, 2)

		label := Label(d)
		size := gocv.GetTextSize(label, gocv.FontHersheySimplex, 0.5, 1)
		tag := image.Rect(
			d.Box.Min.X, d.Box.Min.Y-size.Y-10,
			d.Box.Min.X+size.X, d.Box.Min.Y,
		)
		gocv.Rectangle(&annotated, tag, boxColor, -1)
		gocv.PutText(&annotated, label,
			image.Pt(d.Box.Min.X, d.Box.Min.Y-5),
			gocv.FontHersheySimplex, 0.5, labelColor, 1)
	}

	return annotated
}

// Label formats the tag text for a detection: display name and
// confidence to two decimals.
func Label(d detect.Detection) string {
	return fmt.Sprintf("%s: %.2f", d.DisplayName, d.Confidence)
}

// EncodeJPEG compresses the frame to JPEG at the given quality.
func EncodeJPEG(frame gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame,
		[]int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("annotate: encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// DataURI wraps JPEG bytes in a data URI embeddable in HTML or JSON.
func DataURI(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}
