package arbiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/ocrengine"
)

// fakeEngine returns a fixed OcrResult regardless of input, so the arbiter's
// fan-out/filter/pick logic can be exercised without real recognizers.
type fakeEngine struct {
	tag    models.EngineTag
	result models.OcrResult
}

func (f *fakeEngine) Ready() bool           { return true }
func (f *fakeEngine) Name() models.EngineTag { return f.tag }
func (f *fakeEngine) Close()                {}
func (f *fakeEngine) Recognize(gocv.Mat) models.OcrResult {
	return f.result
}

func engineOf(tag models.EngineTag, text string, conf float64) ocrengine.Engine {
	return &fakeEngine{tag: tag, result: models.OcrResult{Text: text, Confidence: conf, Engine: tag}}
}

func TestArbiterTieBreak(t *testing.T) {
	engines := []ocrengine.Engine{
		engineOf(models.EngineTesseract, "34ABC123", 0.80),
		engineOf(models.EnginePaddle, "34ABC123", 0.80),
		engineOf(models.EngineEasy, "34ABC123", 0.80),
	}
	a := New(engines, nil, false)

	got := a.Recognize(gocv.NewMat())
	assert.Equal(t, "34ABC123", got.Text)
	assert.Equal(t, 0.80, got.Confidence)
	assert.Equal(t, models.EnginePaddle, got.Engine)
}

func TestArbiterValidationFilter(t *testing.T) {
	engines := []ocrengine.Engine{
		engineOf(models.EnginePaddle, "XYZZZ", 0.99),
		engineOf(models.EngineEasy, "34ABC123", 0.70),
	}
	a := New(engines, nil, false)

	got := a.Recognize(gocv.NewMat())
	assert.Equal(t, "34ABC123", got.Text)
	assert.Equal(t, models.EngineEasy, got.Engine)
}

func TestArbiterEmptyEngineSet(t *testing.T) {
	a := New(nil, nil, false)
	got := a.Recognize(gocv.NewMat())
	assert.Equal(t, models.EngineNone, got.Engine)
	assert.Zero(t, got.Confidence)
	assert.Empty(t, got.Text)
}

func TestArbiterDropsNotReadyEngines(t *testing.T) {
	notReady := &fakeEngine{tag: models.EngineTesseract, result: models.OcrResult{Text: "34ABC123", Confidence: 0.9, Engine: models.EngineTesseract}}
	// Wrap so Ready() reports false — a distinct type is simplest here since
	// fakeEngine.Ready always returns true.
	a := New([]ocrengine.Engine{&notReadyEngine{notReady}}, nil, false)
	got := a.Recognize(gocv.NewMat())
	assert.Equal(t, models.EngineNone, got.Engine)
}

type notReadyEngine struct {
	*fakeEngine
}

func (n *notReadyEngine) Ready() bool { return false }

func TestPlateLengthBoundary(t *testing.T) {
	// "34A12" normalizes to itself (5 chars) and fails the format regexes,
	// so it's rejected by validation, not by the length pre-check — the
	// length check and validation overlap in practice since every valid
	// plate is already >=6 chars. This exercises accept() directly instead.
	assert.False(t, accept(models.OcrResult{Text: "34A12", Confidence: 0.9}))
	assert.True(t, accept(models.OcrResult{Text: "34ABC123", Confidence: 0.9}))
}
