package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platerecon",
		Name:      "frames_processed_total",
		Help:      "Total number of frames processed, by camera and pipeline role",
	}, []string{"camera_id", "role"})

	FramesSkippedNoMotion = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platerecon",
		Name:      "frames_skipped_no_motion_total",
		Help:      "Total number of OCR frames skipped because MotionGate found no motion",
	}, []string{"camera_id"})

	PlatesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platerecon",
		Name:      "plates_detected_total",
		Help:      "Total number of accepted plate detections, by camera and winning engine",
	}, []string{"camera_id", "engine"})

	OcrDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "platerecon",
		Name:      "ocr_recognize_duration_seconds",
		Help:      "Duration of OcrRouter.Recognize calls, by engine",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"engine"})

	ArbiterWinners = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "platerecon",
		Name:      "arbiter_winner_total",
		Help:      "Number of times each engine won the hybrid arbiter's selection",
	}, []string{"engine"})

	ActiveCameras = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "platerecon",
		Name:      "active_cameras",
		Help:      "Number of cameras currently started in the supervisor",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "platerecon",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "platerecon",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
