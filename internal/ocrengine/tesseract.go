package ocrengine

import (
	"log/slog"

	gosseract "github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// TesseractEngine runs Tesseract in-process via gosseract. Grounded on
// original_source/.../ocr_engines/tesseract_engine.py: same whitelist,
// language pair and single-line page segmentation mode, same per-word
// confidence averaging (gosseract's bounding-box confidences stand in for
// pytesseract's image_to_data conf column).
type TesseractEngine struct {
	ready bool
}

// NewTesseractEngine probes the local Tesseract install once at
// construction, mirroring pytesseract.get_tesseract_version()'s sanity
// check; a probe failure marks the engine permanently unavailable.
func NewTesseractEngine() *TesseractEngine {
	client := gosseract.NewClient()
	defer client.Close()

	_, err := client.GetAvailableLanguages()
	if err != nil {
		slog.Warn("ocr: tesseract probe failed, engine unavailable", "error", err)
		return &TesseractEngine{ready: false}
	}
	return &TesseractEngine{ready: true}
}

func (e *TesseractEngine) Ready() bool { return e.ready }

func (e *TesseractEngine) Name() models.EngineTag { return models.EngineTesseract }

func (e *TesseractEngine) Close() {}

func (e *TesseractEngine) Recognize(image gocv.Mat) models.OcrResult {
	if !e.ready {
		return models.OcrResult{Engine: models.EngineTesseract}
	}

	processed := preprocessForTesseract(image)
	defer processed.Close()

	buf, err := gocv.IMEncode(".png", processed)
	if err != nil {
		slog.Warn("ocr: tesseract encode failed", "error", err)
		return models.OcrResult{Engine: models.EngineTesseract}
	}
	defer buf.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("tur", "eng"); err != nil {
		slog.Warn("ocr: tesseract set language failed", "error", err)
		return models.OcrResult{Engine: models.EngineTesseract}
	}
	if err := client.SetWhitelist("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"); err != nil {
		slog.Warn("ocr: tesseract set whitelist failed", "error", err)
	}
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_LINE)

	if err := client.SetImageFromBytes(buf.GetBytes()); err != nil {
		slog.Warn("ocr: tesseract set image failed", "error", err)
		return models.OcrResult{Engine: models.EngineTesseract}
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		slog.Warn("ocr: tesseract recognize failed", "error", err)
		return models.OcrResult{Engine: models.EngineTesseract}
	}

	var text string
	var confSum float64
	var n int
	for _, b := range boxes {
		if b.Confidence <= 0 {
			continue
		}
		text += b.Word
		confSum += b.Confidence
		n++
	}
	if n == 0 {
		return models.OcrResult{Engine: models.EngineTesseract}
	}

	return models.OcrResult{
		Text:       filterPlateChars(text),
		Confidence: (confSum / float64(n)) / 100.0,
		Engine:     models.EngineTesseract,
	}
}
