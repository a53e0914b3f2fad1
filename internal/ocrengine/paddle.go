package ocrengine

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// PaddleEngine calls out to a PaddleOCR sidecar over HTTP. Grounded on
// original_source/.../ocr_engines/paddle_engine.py; the angle-classifier and
// recognition call themselves live in the sidecar, this wrapper owns only
// the preprocessing and the transport.
type PaddleEngine struct {
	*remoteClient
}

// NewPaddleEngine returns an engine pointed at baseURL (e.g.
// "http://paddle-ocr:8000/recognize"). An empty baseURL produces a
// permanently-unavailable engine, matching the source's "initialized=false
// on construction failure" behavior.
func NewPaddleEngine(baseURL string, timeout time.Duration) *PaddleEngine {
	return &PaddleEngine{remoteClient: newRemoteClient(models.EnginePaddle, baseURL, timeout, preprocessForPaddle)}
}

func (e *PaddleEngine) Recognize(image gocv.Mat) models.OcrResult {
	return e.recognize(image)
}
