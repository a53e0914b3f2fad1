package ocrengine

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// remoteResponse is the JSON contract both the Paddle and EasyOCR sidecars
// speak: {"text": "...", "confidence": 0.0-1.0}. Neither PaddleOCR nor
// EasyOCR has a native Go binding (both are Python/PaddlePaddle or
// Python/PyTorch libraries), so this port calls each out as a small HTTP
// microservice wrapping the original Python library, preserving the
// source's preprocessing in Go and its recognition call over the wire.
type remoteResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type remoteClient struct {
	tag        models.EngineTag
	url        string
	client     *http.Client
	ready      bool
	preprocess func(gocv.Mat) gocv.Mat
}

func newRemoteClient(tag models.EngineTag, baseURL string, timeout time.Duration, preprocess func(gocv.Mat) gocv.Mat) *remoteClient {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &remoteClient{
		tag:        tag,
		url:        baseURL,
		client:     &http.Client{Timeout: timeout},
		ready:      baseURL != "",
		preprocess: preprocess,
	}
}

func (r *remoteClient) Ready() bool { return r.ready }

func (r *remoteClient) Name() models.EngineTag { return r.tag }

func (r *remoteClient) Close() {}

func (r *remoteClient) recognize(frame gocv.Mat) models.OcrResult {
	if !r.ready {
		return models.OcrResult{Engine: r.tag}
	}

	image := r.preprocess(frame)
	defer image.Close()

	buf, err := gocv.IMEncode(".jpg", image)
	if err != nil {
		slog.Warn("ocr: encode frame for remote engine failed", "engine", r.tag, "error", err)
		return models.OcrResult{Engine: r.tag}
	}
	defer buf.Close()

	ctx, cancel := context.WithTimeout(context.Background(), r.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(buf.GetBytes()))
	if err != nil {
		slog.Warn("ocr: build remote request failed", "engine", r.tag, "error", err)
		return models.OcrResult{Engine: r.tag}
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("ocr: remote engine call failed", "engine", r.tag, "error", err)
		return models.OcrResult{Engine: r.tag}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("ocr: remote engine returned non-200", "engine", r.tag, "status", resp.StatusCode)
		return models.OcrResult{Engine: r.tag}
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Warn("ocr: decode remote engine response failed", "engine", r.tag, "error", err)
		return models.OcrResult{Engine: r.tag}
	}

	return models.OcrResult{
		Text:       filterPlateChars(out.Text),
		Confidence: out.Confidence,
		Engine:     r.tag,
	}
}
