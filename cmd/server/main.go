// Dresswatch server - dress code detection over camera and uploads.
//
// Wires the YOLO detector, the MySQL violation store, the live camera
// session and the HTTP surface together.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/campusguard/dresswatch/internal/config"
	"github.com/campusguard/dresswatch/internal/log"
	"github.com/campusguard/dresswatch/pkg/detect"
	"github.com/campusguard/dresswatch/pkg/metrics"
	"github.com/campusguard/dresswatch/pkg/session"
	"github.com/campusguard/dresswatch/pkg/store"
	"github.com/campusguard/dresswatch/pkg/stream"
	"github.com/campusguard/dresswatch/pkg/violation"
	"github.com/campusguard/dresswatch/pkg/web"
)

func main() {
	log.Init(config.LogLevel())

	detectorCfg := detect.DefaultConfig()
	detectorCfg.ModelPath = config.ModelPath()
	detector, err := detect.NewYOLO(detectorCfg)
	if err != nil {
		log.Error("could not load detection model", "path", detectorCfg.ModelPath, "error", err)
		os.Exit(1)
	}
	defer detector.Close()
	log.Info("detection model loaded", "path", detectorCfg.ModelPath)

	// The service keeps detecting without a database; violations are
	// logged and dropped until MySQL comes back at next restart.
	var sink violation.Sink
	var db *store.Store
	if s, err := store.Open(config.Database().DSN()); err != nil {
		log.Warn("could not connect to MySQL, continuing without violation logging", "error", err)
		sink = violation.Discard{}
	} else {
		db = s
		sink = s
		defer s.Close()
		log.Info("violation store connected")
	}

	m := metrics.New()
	go func() {
		if err := m.Serve(config.MetricsAddr()); err != nil {
			log.Warn("metrics listener failed", "error", err)
		}
	}()

	threshold := config.ConfidenceThreshold()
	sess := session.New(&session.Pipeline{
		Detector:  detector,
		Threshold: threshold,
		Sink:      sink,
		Location:  session.LiveLocation,
		Metrics:   m,
	}, func() (session.Device, error) {
		return session.OpenWebcam(config.CameraIndex())
	})
	defer sess.Stop()

	srv := web.NewServer(web.Config{
		Port:    config.Port(),
		Session: sess,
		Uploads: &session.Pipeline{
			Detector:  detector,
			Threshold: threshold,
			Sink:      sink,
			Location:  session.UploadLocation,
			Metrics:   m,
		},
		Mux:   &stream.Mux{Session: sess, Metrics: m},
		Store: db,
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		sess.Stop()
		srv.Shutdown()
	}()

	if err := srv.Listen(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
