// Package arbiter implements OcrArbiter, the "hybrid" mode that fans a
// frame out to every available recognizer and picks the best surviving
// result. Grounded on
// original_source/backend/app/utils/ocr_engines/hybrid_engine.py.
package arbiter

import (
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/observability"
	"github.com/your-org/platerecon/internal/ocrengine"
	"github.com/your-org/platerecon/internal/plate"
)

// tieBreakOrder is the explicit, configurable answer to the spec's open
// question about engine-preference order: paddle first, then easy, then
// tesseract — read directly off hybrid_engine.py's dict insertion order
// (paddle, easy, tesseract, yolo).
var tieBreakOrder = []models.EngineTag{models.EnginePaddle, models.EngineEasy, models.EngineTesseract}

// Arbiter orchestrates an optional Yolo pre-crop plus N recognizers.
// Availability is fixed at construction: engines that failed Ready() are
// simply absent from recognizers/detector, never touched again.
type Arbiter struct {
	recognizers []ocrengine.Engine
	detector    ocrengine.PlateDetector
	useYolo     bool
}

// New builds an Arbiter from whichever engines the caller was able to
// construct. Pass a nil detector if no Yolo engine is available; pass only
// the recognizers that are Ready().
func New(recognizers []ocrengine.Engine, detector ocrengine.PlateDetector, useYoloDetection bool) *Arbiter {
	ready := make([]ocrengine.Engine, 0, len(recognizers))
	for _, r := range recognizers {
		if r != nil && r.Ready() {
			ready = append(ready, r)
		}
	}
	a := &Arbiter{recognizers: ready, useYolo: useYoloDetection}
	if detector != nil && detector.Ready() {
		a.detector = detector
	}
	return a
}

// Recognize runs the pre-crop (if enabled and available), fans the result
// out to every recognizer, filters candidates and returns the winner. It
// never panics and never returns an error: an empty engine set, or no
// survivor, yields (none, 0.0, "none").
func (a *Arbiter) Recognize(frame gocv.Mat) models.OcrResult {
	if len(a.recognizers) == 0 {
		return models.OcrResult{Engine: models.EngineNone}
	}

	image := frame
	if a.useYolo && a.detector != nil {
		crop := a.detector.ExtractPlateRegion(frame)
		if !crop.Empty() {
			defer crop.Close()
			image = crop
		}
	}

	var survivors []models.OcrResult
	for _, engine := range a.recognizers {
		result := engine.Recognize(image)
		if !accept(result) {
			continue
		}
		survivors = append(survivors, models.OcrResult{
			Text:       plate.Format(result.Text),
			Confidence: result.Confidence,
			Engine:     result.Engine,
		})
	}

	winner, ok := pickWinner(survivors)
	if !ok {
		return models.OcrResult{Engine: models.EngineNone}
	}
	observability.ArbiterWinners.WithLabelValues(string(winner.Engine)).Inc()
	return winner
}

// accept is the arbiter's own per-result filter, independent of and
// upstream from the pipeline's acceptance-confidence gate: empty text,
// fewer than 5 characters, or a failed plate validation all drop the
// candidate silently.
func accept(r models.OcrResult) bool {
	if r.Text == "" || len(r.Text) < 5 {
		return false
	}
	return plate.Validate(r.Text)
}

// pickWinner selects the highest-confidence survivor, breaking ties by
// tieBreakOrder.
func pickWinner(survivors []models.OcrResult) (models.OcrResult, bool) {
	if len(survivors) == 0 {
		return models.OcrResult{}, false
	}

	best := survivors[0]
	for _, r := range survivors[1:] {
		if r.Confidence > best.Confidence {
			best = r
			continue
		}
		if r.Confidence == best.Confidence && rank(r.Engine) < rank(best.Engine) {
			best = r
		}
	}
	return best, true
}

func rank(tag models.EngineTag) int {
	for i, t := range tieBreakOrder {
		if t == tag {
			return i
		}
	}
	return len(tieBreakOrder)
}
