// Package router implements OcrRouter: one recognize surface that can be
// pointed at a single engine or at the hybrid arbiter, switchable at
// runtime. Grounded on
// original_source/backend/app/utils/ocr_engines/ocr_manager.py.
package router

import (
	"sync"
	"sync/atomic"

	"github.com/your-org/platerecon/internal/arbiter"
	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/ocrengine"
	"gocv.io/x/gocv"
)

// Factory lazily constructs an engine for a tag the first time it is
// selected. Returning a non-ready engine (or nil) is treated as
// initialization failure.
type Factory func(tag models.EngineTag) ocrengine.Engine

// ArbiterFactory lazily builds the hybrid arbiter the first time "hybrid"
// is selected, once the router knows which single engines are available.
type ArbiterFactory func(available map[models.EngineTag]ocrengine.Engine) *arbiter.Arbiter

// Router presents Recognize/SetEngine. Safe for concurrent use: the
// current-engine tag is swapped atomically so a Recognize call never
// observes a half-updated selection, and engines/hybrid are guarded by mu
// since SetEngine runs on the API goroutine while Recognize runs on the
// pipeline goroutine.
type Router struct {
	newEngine  Factory
	newArbiter ArbiterFactory

	mu      sync.Mutex
	engines map[models.EngineTag]ocrengine.Engine
	hybrid  *arbiter.Arbiter

	current atomic.Value // models.EngineTag
}

// New returns a Router with current engine set to defaultTag and selects it
// through SetEngine right away, which constructs that engine (or, for
// hybrid, every single engine plus the arbiter). Other engines are
// constructed lazily on their first SetEngine.
func New(defaultTag models.EngineTag, newEngine Factory, newArbiter ArbiterFactory) *Router {
	r := &Router{
		newEngine:  newEngine,
		newArbiter: newArbiter,
		engines:    make(map[models.EngineTag]ocrengine.Engine),
	}
	r.current.Store(defaultTag)
	r.SetEngine(defaultTag)
	return r
}

// SetEngine switches the current engine. It lazily instantiates tag if
// never seen before; returns false (no state change) if tag cannot
// initialize, or is unknown.
func (r *Router) SetEngine(tag models.EngineTag) bool {
	switch tag {
	case models.EnginePaddle, models.EngineEasy, models.EngineTesseract, models.EngineYolo:
		r.mu.Lock()
		engine, ok := r.ensureEngine(tag)
		r.mu.Unlock()
		if !ok || !engine.Ready() {
			return false
		}
		r.current.Store(tag)
		return true
	case models.EngineHybrid:
		r.mu.Lock()
		if r.hybrid == nil {
			r.hybrid = r.buildHybrid()
		}
		hybrid := r.hybrid
		r.mu.Unlock()
		if hybrid == nil {
			return false
		}
		r.current.Store(tag)
		return true
	default:
		return false
	}
}

// CurrentEngine returns the active tag.
func (r *Router) CurrentEngine() models.EngineTag {
	return r.current.Load().(models.EngineTag)
}

// Recognize delegates to the current engine or, in hybrid mode, to the
// arbiter. An unavailable current engine (should not normally happen,
// since SetEngine refuses to select one) yields the universal
// none/0.0/"none" zero result.
func (r *Router) Recognize(frame gocv.Mat) models.OcrResult {
	tag := r.CurrentEngine()
	if tag == models.EngineHybrid {
		r.mu.Lock()
		hybrid := r.hybrid
		r.mu.Unlock()
		if hybrid == nil {
			return models.OcrResult{Engine: models.EngineNone}
		}
		return hybrid.Recognize(frame)
	}

	r.mu.Lock()
	engine, ok := r.engines[tag]
	r.mu.Unlock()
	if !ok || !engine.Ready() {
		return models.OcrResult{Engine: models.EngineNone}
	}
	return engine.Recognize(frame)
}

// ensureEngine lazily constructs the engine for tag. Callers must hold mu
// (SetEngine and buildHybrid both do).
func (r *Router) ensureEngine(tag models.EngineTag) (ocrengine.Engine, bool) {
	if e, ok := r.engines[tag]; ok {
		return e, true
	}
	e := r.newEngine(tag)
	if e == nil {
		return nil, false
	}
	r.engines[tag] = e
	return e, true
}

// buildHybrid must be called with mu held.
func (r *Router) buildHybrid() *arbiter.Arbiter {
	for _, tag := range []models.EngineTag{models.EnginePaddle, models.EngineEasy, models.EngineTesseract, models.EngineYolo} {
		r.ensureEngine(tag)
	}
	return r.newArbiter(r.engines)
}

// Close releases every instantiated engine.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.engines {
		e.Close()
	}
}
