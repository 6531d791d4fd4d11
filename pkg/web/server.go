// Package web exposes the detection service over HTTP: the upload
// endpoint, the live camera controls and both stream feeds.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/campusguard/dresswatch/internal/log"
	"github.com/campusguard/dresswatch/pkg/session"
	"github.com/campusguard/dresswatch/pkg/store"
	"github.com/campusguard/dresswatch/pkg/stream"
)

// Config wires the server to the pipeline components.
type Config struct {
	Port    string
	Session *session.Session
	Uploads *session.Pipeline
	Mux     *stream.Mux
	Store   *store.Store // nil when the database is unavailable
}

// Server is the HTTP front of the detection service.
type Server struct {
	app  *fiber.App
	port string

	session *session.Session
	uploads *session.Pipeline
	mux     *stream.Mux
	store   *store.Store
}

// NewServer builds the fiber app and registers all routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		port:    cfg.Port,
		session: cfg.Session,
		uploads: cfg.Uploads,
		mux:     cfg.Mux,
		store:   cfg.Store,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Dresswatch",
		DisableStartupMessage: true,
		BodyLimit:             32 * 1024 * 1024, // Image uploads
	})

	app.Use(cors.New())

	// Pages
	app.Static("/static", "./static")
	app.Get("/", s.handleLandingPage)
	app.Get("/detect", s.handleDetectPage)

	// Single-image detection
	app.Post("/detect", s.handleDetect)

	// Live camera
	app.Post("/camera/start", s.handleCameraStart)
	app.Post("/camera/stop", s.handleCameraStop)
	app.Get("/camera/status", s.handleCameraStatus)
	app.Get("/camera/stream", s.handleCameraStream)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	// Review
	app.Get("/violations", s.handleViolations)

	app.Get("/health", s.handleHealth)

	s.app = app
	return s
}

// Listen starts the server. Blocks until shutdown.
func (s *Server) Listen() error {
	log.Info("http server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
