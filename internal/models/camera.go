// Package models holds the value types shared across the dual pipeline
// engine: camera configuration, detections and stats snapshots. Frame
// itself lives in internal/capture since it is tied to the gocv.Mat it
// wraps and never needs to cross a package boundary as a model.
package models

import "time"

// SourceKind identifies how a camera's stream is addressed.
type SourceKind string

const (
	SourceWebcam SourceKind = "webcam"
	SourceRTSP   SourceKind = "rtsp_url"
	SourceONVIF  SourceKind = "onvif_host"
)

// EngineTag names an OCR engine or router mode.
type EngineTag string

const (
	EnginePaddle    EngineTag = "paddle"
	EngineEasy      EngineTag = "easy"
	EngineTesseract EngineTag = "tesseract"
	EngineYolo      EngineTag = "yolo"
	EngineHybrid    EngineTag = "hybrid"
	EngineNone      EngineTag = "none"
)

// CameraSpec describes one camera for the lifetime of a pipeline run. It is
// treated as immutable once handed to PipelineSupervisor.Start.
type CameraSpec struct {
	ID   string
	Kind SourceKind

	// RTSPURL is used when Kind == SourceRTSP.
	RTSPURL string
	// ONVIFHost, ONVIFUser, ONVIFPass are used when Kind == SourceONVIF; the
	// core does not speak ONVIF device management itself, it expects the
	// caller to have already resolved these into a playable stream URL via
	// RTSPURL. Kept here only so the spec's source-kind enumeration has a
	// concrete home.
	ONVIFHost string
	ONVIFUser string
	ONVIFPass string
	// WebcamIndex is used when Kind == SourceWebcam.
	WebcamIndex int

	TargetPreviewFPS int
	TargetOcrFPS     int

	EnableOCR    bool
	EnableMotion bool
	EnableROI    bool
	ROI          *RoiRect

	Engine EngineTag

	MotionThreshold   int
	MotionMinArea     float64
	AcceptConfidence  float64
	DebounceWindowSec float64
}

// RoiRect is an inclusive-exclusive pixel rectangle: [X1,X2) x [Y1,Y2).
type RoiRect struct {
	X1, Y1, X2, Y2 int
}

// Empty reports whether the rectangle has no usable area.
func (r RoiRect) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// CameraRecord is CameraSpec's persisted form: the row a store keeps so a
// camera can be re-registered with PipelineSupervisor.Start after a restart.
type CameraRecord struct {
	Spec      CameraSpec
	CreatedAt time.Time
	UpdatedAt time.Time
}

