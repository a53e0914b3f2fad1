// Package ocrengine defines the recognizer capability interface shared by
// every OCR backend (PaddleOCR, EasyOCR, Tesseract, YOLO) and the concrete
// wrappers around each. Grounded on
// original_source/backend/app/utils/ocr_engines/{ocr_manager,hybrid_engine}.py:
// the source dynamically dispatches over engines by string key and an
// `initialized` flag; here that becomes a small interface plus a sticky
// availability bit set once at construction.
package ocrengine

import (
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// Engine is the capability every recognizer satisfies. Each engine's
// constructor sets up its backend once; a failure there marks the engine
// permanently unavailable — callers must not retry it.
type Engine interface {
	// Ready reports whether construction succeeded. Checked before every use.
	Ready() bool
	// Recognize returns the best text it can read out of image and a
	// confidence in [0,1]. It must never mutate image, and must never
	// panic or return an error: internal failures are folded into a
	// zero-value OcrResult.
	Recognize(image gocv.Mat) models.OcrResult
	// Name returns this engine's tag, used for tie-breaking and stats.
	Name() models.EngineTag
	// Close releases any resources (HTTP clients and the Tesseract engine,
	// which opens a client per call, need none; the ONNX engine does).
	Close()
}

// PlateDetector is the additional surface the Yolo engine exposes beyond
// Engine: it localizes plates instead of reading them.
type PlateDetector interface {
	Engine
	// DetectPlates returns every candidate bounding box with its
	// detection confidence, highest confidence first.
	DetectPlates(image gocv.Mat) []PlateBox
	// ExtractPlateRegion returns the crop of the highest-confidence
	// detection, or an empty Mat (Empty() == true) if none cleared the
	// detector's own threshold.
	ExtractPlateRegion(image gocv.Mat) gocv.Mat
}

// PlateBox is one detector candidate region.
type PlateBox struct {
	X1, Y1, X2, Y2 int
	Confidence     float64
}
