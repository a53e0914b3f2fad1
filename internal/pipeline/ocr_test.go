package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/platerecon/internal/models"
)

func TestMaybeEmitRejectsBelowThreshold(t *testing.T) {
	var captured []models.Detection
	spec := models.CameraSpec{ID: "cam-1"}
	p := NewOcrPipeline(spec, nil, func(d models.Detection) error {
		captured = append(captured, d)
		return nil
	})

	// Confidence exactly at threshold (0.6) must be rejected (strict >).
	p.maybeEmit(models.OcrResult{Text: "34ABC123", Confidence: 0.6, Engine: models.EnginePaddle}, 0.6, 5.0)
	assert.Empty(t, captured)

	p.maybeEmit(models.OcrResult{Text: "34ABC123", Confidence: 0.61, Engine: models.EnginePaddle}, 0.6, 5.0)
	require.Len(t, captured, 1)
	assert.Equal(t, "34ABC123", captured[0].Plate)
}

func TestMaybeEmitRejectsInvalidPlate(t *testing.T) {
	var captured []models.Detection
	p := NewOcrPipeline(models.CameraSpec{ID: "cam-1"}, nil, func(d models.Detection) error {
		captured = append(captured, d)
		return nil
	})

	p.maybeEmit(models.OcrResult{Text: "HELLO", Confidence: 0.9, Engine: models.EnginePaddle}, 0.6, 5.0)
	assert.Empty(t, captured)
}

func TestMaybeEmitDebounce(t *testing.T) {
	var captured []models.Detection
	p := NewOcrPipeline(models.CameraSpec{ID: "cam-1"}, nil, func(d models.Detection) error {
		captured = append(captured, d)
		return nil
	})

	result := models.OcrResult{Text: "34ABC123", Confidence: 0.9, Engine: models.EnginePaddle}

	// t=0: emits.
	p.maybeEmit(result, 0.6, 5.0)
	require.Len(t, captured, 1)

	// Simulate t=2s: within the 5s debounce window, suppressed.
	p.lastDetectionAt.Store(time.Now().Add(-2 * time.Second))
	p.maybeEmit(result, 0.6, 5.0)
	assert.Len(t, captured, 1, "second detection within debounce window must be suppressed")

	// Simulate t=6s relative to the original: past the window, emits again.
	p.lastDetectionAt.Store(time.Now().Add(-6 * time.Second))
	p.maybeEmit(result, 0.6, 5.0)
	assert.Len(t, captured, 2, "detection past the debounce window must emit again")
}
