package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"estimmo/internal/model"
)

// HealthService reports on the running process and the loaded bundle.
type HealthService struct {
	version   string
	meta      model.Metadata
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Version   string      `json:"version"`
	Uptime    string      `json:"uptime"`
	Runtime   RuntimeInfo `json:"runtime"`
	Model     ModelInfo   `json:"model"`
}

// RuntimeInfo describes the Go process.
type RuntimeInfo struct {
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Goroutines int    `json:"goroutines"`
}

// ModelInfo summarizes the loaded bundle for operators.
type ModelInfo struct {
	Loaded    bool      `json:"loaded"`
	TrainedAt time.Time `json:"trained_at"`
	TestR2    float64   `json:"test_r2"`
	TrainRows int       `json:"train_rows"`
	Version   int       `json:"version"`
}

// NewHealthService creates a health service for a loaded bundle.
func NewHealthService(version string, meta model.Metadata, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		meta:      meta,
		startTime: time.Now(),
		logger:    logger,
	}
}

// ReadyStatus is the readiness probe response.
type ReadyStatus struct {
	Ready       bool `json:"ready"`
	ModelLoaded bool `json:"model_loaded"`
}

// Check builds the current health snapshot. The service is healthy
// whenever the process is up, since the bundle is loaded before the
// server starts listening.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: RuntimeInfo{
			GoVersion:  runtime.Version(),
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Goroutines: runtime.NumGoroutine(),
		},
		Model: ModelInfo{
			Loaded:    true,
			TrainedAt: s.meta.TrainedAt,
			TestR2:    s.meta.TestR2,
			TrainRows: s.meta.TrainRows,
			Version:   s.meta.Version,
		},
	}
}

// Ready reports whether the service can answer estimates. The bundle
// is loaded during startup, so readiness tracks liveness here; the
// probe exists so orchestrators have a distinct endpoint to poll.
func (s *HealthService) Ready(ctx context.Context) ReadyStatus {
	return ReadyStatus{
		Ready:       true,
		ModelLoaded: true,
	}
}
