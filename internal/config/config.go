// Package config provides configuration helpers for dresswatch commands.
// All settings come from environment variables with sensible defaults, so
// the server runs out of the box against a local camera and MySQL.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Defaults for the detection service.
const (
	DefaultPort        = "8000"
	DefaultMetricsAddr = ":9091"
	DefaultModelPath   = "models/best.onnx"
	DefaultThreshold   = 0.5
	DefaultCameraIndex = 0
)

// Port returns the HTTP listen port from PORT.
func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// MetricsAddr returns the prometheus listen address from METRICS_ADDR.
func MetricsAddr() string {
	if a := os.Getenv("METRICS_ADDR"); a != "" {
		return a
	}
	return DefaultMetricsAddr
}

// ModelPath returns the ONNX model path from MODEL_PATH.
func ModelPath() string {
	if p := os.Getenv("MODEL_PATH"); p != "" {
		return p
	}
	return DefaultModelPath
}

// ConfidenceThreshold returns the detection confidence cutoff from
// CONFIDENCE_THRESHOLD. Detections at or below the cutoff are discarded.
func ConfidenceThreshold() float64 {
	if v := os.Getenv("CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f < 1 {
			return f
		}
	}
	return DefaultThreshold
}

// CameraIndex returns the capture device index from CAMERA_INDEX.
func CameraIndex() int {
	if v := os.Getenv("CAMERA_INDEX"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return DefaultCameraIndex
}

// LogLevel returns the log level from LOG_LEVEL.
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}

// DB holds MySQL connection settings.
type DB struct {
	Host     string
	Name     string
	User     string
	Password string
	Port     int
}

// Database returns MySQL settings from DB_HOST, DB_NAME, DB_USER,
// DB_PASSWORD and DB_PORT.
func Database() DB {
	port := 3306
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	return DB{
		Host:     envOr("DB_HOST", "localhost"),
		Name:     envOr("DB_NAME", "dresstest"),
		User:     envOr("DB_USER", "root"),
		Password: os.Getenv("DB_PASSWORD"),
		Port:     port,
	}
}

// DSN returns the go-sql-driver connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", d.User, d.Password, d.Host, d.Port, d.Name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
