package models

import (
	"time"

	"github.com/google/uuid"
)

// OcrResult is what one recognizer produces for one frame. It never escapes
// a pipeline except folded into the arbiter's chosen result.
type OcrResult struct {
	Text       string
	Confidence float64
	Engine     EngineTag
}

// Valid reports whether the result carries usable text.
func (r OcrResult) Valid() bool {
	return r.Text != ""
}

// Detection is emitted to the caller-supplied OcrCallback once it survives
// validation, the acceptance threshold and the debouncer. ID is assigned by
// the store on persistence; a Detection built by OcrPipeline carries a zero
// UUID until then.
type Detection struct {
	ID         uuid.UUID
	CameraID   string
	Plate      string
	Confidence float64
	Engine     EngineTag
	Timestamp  time.Time
}

// Role identifies which of the two pipelines a PipelineStats snapshot
// belongs to.
type Role string

const (
	RoleLive Role = "live"
	RoleOCR  Role = "ocr"
)

// PipelineStats is a read-only snapshot of one pipeline's counters. Fields
// not applicable to a role are left at their zero value.
type PipelineStats struct {
	Role Role

	FrameCount int64
	ActualFPS  float64
	Running    bool

	// OCR-only.
	ProcessedFrames int64
	DetectedPlates  int64
	LastDetection   string
	LastDetectionAt time.Time
	CurrentEngine   EngineTag
}
