package ocrengine

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// EasyEngine calls out to an EasyOCR sidecar over HTTP. Grounded on
// original_source/.../ocr_engines/easyocr_engine.py.
type EasyEngine struct {
	*remoteClient
}

// NewEasyEngine returns an engine pointed at baseURL. An empty baseURL
// produces a permanently-unavailable engine.
func NewEasyEngine(baseURL string, timeout time.Duration) *EasyEngine {
	return &EasyEngine{remoteClient: newRemoteClient(models.EngineEasy, baseURL, timeout, preprocessForEasy)}
}

func (e *EasyEngine) Recognize(image gocv.Mat) models.OcrResult {
	return e.recognize(image)
}
