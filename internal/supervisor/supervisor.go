// Package supervisor implements PipelineSupervisor: the camera_id -> {live,
// ocr?} map and its lifecycle delegations. Grounded on the shape of
// original_source/backend/app/main.py's camera registry and the teacher's
// internal/ingest/manager.go (map + mutex + start/stop by id).
package supervisor

import (
	"sync"

	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/observability"
	"github.com/your-org/platerecon/internal/pipeline"
	"github.com/your-org/platerecon/internal/router"
)

// EngineFactory constructs the concrete OcrEngine for a tag, e.g. wiring in
// sidecar URLs, ONNX model paths and gosseract availability from config.
// Shared by every camera's router.
type EngineFactory = router.Factory

// ArbiterFactory builds the hybrid arbiter from whatever single engines a
// router was able to construct.
type ArbiterFactory = router.ArbiterFactory

type entry struct {
	live   *pipeline.LivePipeline
	ocr    *pipeline.OcrPipeline
	router *router.Router
}

// Supervisor is safe for concurrent use.
type Supervisor struct {
	newEngine  EngineFactory
	newArbiter ArbiterFactory

	mu      sync.RWMutex
	cameras map[string]*entry
}

// New returns an empty Supervisor. newEngine/newArbiter are shared by every
// camera's own per-camera OcrRouter — per §9's guidance, the router is
// owned one-per-camera, never process-global, so switching one camera's
// engine never touches another's.
func New(newEngine EngineFactory, newArbiter ArbiterFactory) *Supervisor {
	return &Supervisor{
		newEngine:  newEngine,
		newArbiter: newArbiter,
		cameras:    make(map[string]*entry),
	}
}

// Start begins capturing for spec. A no-op if the camera id is already
// present, running or not.
func (s *Supervisor) Start(spec models.CameraSpec, cb pipeline.OcrCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cameras[spec.ID]; exists {
		return
	}

	r := router.New(spec.Engine, s.newEngine, s.newArbiter)
	live := pipeline.NewLivePipeline(spec)
	live.Start()

	e := &entry{live: live, router: r}

	if spec.EnableOCR {
		ocr := pipeline.NewOcrPipeline(spec, r, cb)
		ocr.Start()
		e.ocr = ocr
	}

	s.cameras[spec.ID] = e
	observability.ActiveCameras.Set(float64(len(s.cameras)))
}

// Stop stops both pipelines for cameraID and removes the entry. Safe to
// call when the camera is absent.
func (s *Supervisor) Stop(cameraID string) {
	s.mu.Lock()
	e, exists := s.cameras[cameraID]
	if exists {
		delete(s.cameras, cameraID)
		observability.ActiveCameras.Set(float64(len(s.cameras)))
	}
	s.mu.Unlock()

	if !exists {
		return
	}
	e.live.Stop()
	if e.ocr != nil {
		e.ocr.Stop()
	}
	e.router.Close()
}

// notRunningStats is the sentinel returned for an absent camera.
var notRunningStats = models.PipelineStats{Running: false}

// GetFrameJPEG delegates to the camera's LivePipeline.
func (s *Supervisor) GetFrameJPEG(cameraID string) ([]byte, bool) {
	e := s.lookup(cameraID)
	if e == nil {
		return nil, false
	}
	return e.live.CurrentFrameJPEG()
}

// GetStats returns {live, ocr?} snapshots for cameraID, or the not-running
// sentinel pair if absent.
func (s *Supervisor) GetStats(cameraID string) (live models.PipelineStats, ocr models.PipelineStats, hasOcr bool) {
	e := s.lookup(cameraID)
	if e == nil {
		return notRunningStats, notRunningStats, false
	}
	live = e.live.Stats()
	if e.ocr != nil {
		return live, e.ocr.Stats(), true
	}
	return live, models.PipelineStats{}, false
}

// SetEngine forwards to the camera's OcrPipeline/OcrRouter. Returns false
// if the camera is absent, has no OCR pipeline, or the engine tag could
// not be selected.
func (s *Supervisor) SetEngine(cameraID string, tag models.EngineTag) bool {
	e := s.lookup(cameraID)
	if e == nil || e.ocr == nil {
		return false
	}
	return e.ocr.SetEngine(tag)
}

func (s *Supervisor) lookup(cameraID string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cameras[cameraID]
}
