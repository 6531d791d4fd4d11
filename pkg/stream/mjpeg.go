package stream

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/campusguard/dresswatch/internal/log"
)

// ContentType is the response content type of the MJPEG stream.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

// WriteMJPEG streams annotated frames to w as an unending multipart
// sequence, driving a detection cycle per frame. Returns when the
// session goes inactive or the consumer disconnects (write error).
// The stream is not restartable; a reconnecting consumer starts a new
// one.
func (m *Mux) WriteMJPEG(w io.Writer) error {
	id := uuid.NewString()
	m.Metrics.PullConsumerAdd(1)
	defer m.Metrics.PullConsumerAdd(-1)
	log.Info("pull consumer connected", "consumer", id)
	defer log.Info("pull consumer disconnected", "consumer", id)

	for m.Session.Active() {
		res, ok := m.Session.RunCycle(nil)
		if !ok {
			// Pace capture failures, then fall back to the last
			// published frame so the stream keeps moving.
			time.Sleep(Cadence)
			if res = m.Session.Last(); res == nil {
				continue
			}
		}
		if err := writePart(w, res.JPEG); err != nil {
			return err
		}
		// Buffered transports must push each part immediately.
		if f, ok := w.(flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

type flusher interface {
	Flush() error
}

func writePart(w io.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\n\r\n", Boundary); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}
