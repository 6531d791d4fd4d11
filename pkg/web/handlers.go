package web

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/valyala/fasthttp"
	"gocv.io/x/gocv"

	"github.com/campusguard/dresswatch/internal/log"
	"github.com/campusguard/dresswatch/pkg/stream"
)

func (s *Server) handleLandingPage(c *fiber.Ctx) error {
	return c.SendFile("./static/landing.html")
}

func (s *Server) handleDetectPage(c *fiber.Ctx) error {
	return c.SendFile("./static/index.html")
}

// handleDetect runs the one-shot pipeline over an uploaded image.
// Input problems reject the request; nothing else touches the live
// session.
func (s *Server) handleDetect(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No image file provided",
		})
	}
	if ct := file.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file type. Please upload an image file.",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil || len(data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Empty file provided",
		})
	}

	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || img.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image file or corrupted image",
		})
	}
	defer img.Close()

	res := s.uploads.Evaluate(c.Context(), img, parseStudentID(c.FormValue("student_id")))
	if res == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error processing image",
		})
	}

	message := "Compliant"
	if !res.Compliance.IsCompliant {
		message = "Violation: Missing " + strings.Join(res.Compliance.MissingItems, ", ")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"image":      res.Image,
		"detections": res.Detections,
		"compliance": res.Compliance,
		"message":    message,
	})
}

func (s *Server) handleCameraStart(c *fiber.Ctx) error {
	if err := s.session.Start(); err != nil {
		log.Error("camera start failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start camera",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Camera started successfully",
	})
}

func (s *Server) handleCameraStop(c *fiber.Ctx) error {
	s.session.Stop()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Camera stopped successfully",
	})
}

func (s *Server) handleCameraStatus(c *fiber.Ctx) error {
	return c.JSON(s.session.Snapshot())
}

// handleCameraWS serves one push consumer for the lifetime of the
// connection.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	defer c.Close()
	s.mux.ServePush(c, parseStudentID(c.Query("student_id")))
}

// handleCameraStream serves the MJPEG pull feed.
func (s *Server) handleCameraStream(c *fiber.Ctx) error {
	if !s.session.Active() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Camera is not active",
		})
	}

	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderContentType, stream.ContentType)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := s.mux.WriteMJPEG(w); err != nil {
			log.Debug("mjpeg stream ended", "error", err)
		}
	}))
	return nil
}

func (s *Server) handleViolations(c *fiber.Ctx) error {
	if s.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Database unavailable",
		})
	}
	violations, err := s.store.RecentViolations(c.Context(), 50)
	if err != nil {
		log.Error("violation query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not load violations",
		})
	}
	return c.JSON(violations)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"model_loaded": s.uploads != nil && s.uploads.Detector != nil,
	})
}

func parseStudentID(v string) *int64 {
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
