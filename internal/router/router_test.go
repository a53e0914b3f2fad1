package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/arbiter"
	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/ocrengine"
)

type stubEngine struct {
	tag   models.EngineTag
	ready bool
	text  string
}

func (s *stubEngine) Ready() bool           { return s.ready }
func (s *stubEngine) Name() models.EngineTag { return s.tag }
func (s *stubEngine) Close()                {}
func (s *stubEngine) Recognize(gocv.Mat) models.OcrResult {
	return models.OcrResult{Text: s.text, Confidence: 0.9, Engine: s.tag}
}

func newTestFactory(ready map[models.EngineTag]bool) Factory {
	return func(tag models.EngineTag) ocrengine.Engine {
		return &stubEngine{tag: tag, ready: ready[tag], text: "34ABC123"}
	}
}

func TestSetEngineUnknownTagFails(t *testing.T) {
	r := New(models.EnginePaddle, newTestFactory(map[models.EngineTag]bool{models.EnginePaddle: true}), nil)
	assert.False(t, r.SetEngine(models.EngineTag("not-a-real-tag")))
	assert.Equal(t, models.EnginePaddle, r.CurrentEngine())
}

func TestSetEngineFailedInitDoesNotSwitch(t *testing.T) {
	ready := map[models.EngineTag]bool{models.EnginePaddle: true, models.EngineEasy: false}
	r := New(models.EnginePaddle, newTestFactory(ready), nil)

	assert.False(t, r.SetEngine(models.EngineEasy))
	assert.Equal(t, models.EnginePaddle, r.CurrentEngine())
}

func TestSetEngineSwitchesOnSuccess(t *testing.T) {
	ready := map[models.EngineTag]bool{models.EnginePaddle: true, models.EngineTesseract: true}
	r := New(models.EnginePaddle, newTestFactory(ready), nil)

	require.True(t, r.SetEngine(models.EngineTesseract))
	assert.Equal(t, models.EngineTesseract, r.CurrentEngine())
}

func TestRecognizeDelegatesToCurrentEngine(t *testing.T) {
	ready := map[models.EngineTag]bool{models.EnginePaddle: true}
	r := New(models.EnginePaddle, newTestFactory(ready), nil)

	got := r.Recognize(gocv.NewMat())
	assert.Equal(t, "34ABC123", got.Text)
	assert.Equal(t, models.EnginePaddle, got.Engine)
}

func TestHybridBuildsArbiterFromAvailableEngines(t *testing.T) {
	ready := map[models.EngineTag]bool{
		models.EnginePaddle: true, models.EngineEasy: true,
		models.EngineTesseract: true, models.EngineYolo: false,
	}
	newArbiter := func(available map[models.EngineTag]ocrengine.Engine) *arbiter.Arbiter {
		recognizers := []ocrengine.Engine{available[models.EnginePaddle], available[models.EngineEasy], available[models.EngineTesseract]}
		return arbiter.New(recognizers, nil, false)
	}
	r := New(models.EngineHybrid, newTestFactory(ready), newArbiter)

	assert.Equal(t, models.EngineHybrid, r.CurrentEngine())
	got := r.Recognize(gocv.NewMat())
	assert.Equal(t, "34ABC123", got.Text)
}
