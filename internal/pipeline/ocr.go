package pipeline

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/your-org/platerecon/internal/capture"
	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/motion"
	"github.com/your-org/platerecon/internal/observability"
	"github.com/your-org/platerecon/internal/plate"
	"github.com/your-org/platerecon/internal/roi"
	"github.com/your-org/platerecon/internal/router"
)

const (
	defaultOcrFPS          = 2
	defaultAcceptThreshold = 0.6
	defaultDebounceSeconds = 5.0
)

// OcrCallback receives accepted detections. Its errors are caught and
// logged; they never stop the pipeline.
type OcrCallback func(models.Detection) error

// OcrPipeline reads a second, full-resolution capture, runs it through
// MotionGate -> RoiCrop -> OcrRouter -> PlateValidator -> debounce, and
// emits accepted detections. Grounded on
// original_source/backend/app/utils/video_pipeline_ocr.py.
type OcrPipeline struct {
	cameraID string
	spec     models.CameraSpec
	router   *router.Router
	callback OcrCallback

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	processedFrames atomic.Int64
	detectedPlates  atomic.Int64
	fps             *fpsCounter

	lastDetection   atomic.Value // string
	lastDetectionAt atomic.Value // time.Time
	currentEngine   atomic.Value // models.EngineTag
}

// NewOcrPipeline returns a pipeline for spec using r to recognize plates
// and cb to deliver accepted detections.
func NewOcrPipeline(spec models.CameraSpec, r *router.Router, cb OcrCallback) *OcrPipeline {
	p := &OcrPipeline{
		cameraID: spec.ID,
		spec:     spec,
		router:   r,
		callback: cb,
		fps:      newFPSCounter(),
	}
	p.lastDetection.Store("")
	p.lastDetectionAt.Store(time.Time{})
	p.currentEngine.Store(spec.Engine)
	return p
}

// Start is idempotent.
func (p *OcrPipeline) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run()
}

// Stop mirrors LivePipeline.Stop: bounded 2s join, loop releases its own
// capture regardless of whether the join completed in time.
func (p *OcrPipeline) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)
	select {
	case <-p.doneCh:
	case <-time.After(2 * time.Second):
		slog.Warn("ocr pipeline stop timed out, abandoning loop", "camera_id", p.cameraID)
	}
}

// SetEngine forwards to the underlying OcrRouter.
func (p *OcrPipeline) SetEngine(tag models.EngineTag) bool {
	if !p.router.SetEngine(tag) {
		return false
	}
	p.currentEngine.Store(tag)
	return true
}

// Stats returns a read-only snapshot.
func (p *OcrPipeline) Stats() models.PipelineStats {
	return models.PipelineStats{
		Role:            models.RoleOCR,
		ActualFPS:       p.fps.value(),
		Running:         p.running.Load(),
		ProcessedFrames: p.processedFrames.Load(),
		DetectedPlates:  p.detectedPlates.Load(),
		LastDetection:   p.lastDetection.Load().(string),
		LastDetectionAt: p.lastDetectionAt.Load().(time.Time),
		CurrentEngine:   p.currentEngine.Load().(models.EngineTag),
	}
}

func (p *OcrPipeline) run() {
	defer close(p.doneCh)

	targetFPS := p.spec.TargetOcrFPS
	if targetFPS <= 0 {
		targetFPS = defaultOcrFPS
	}
	period := time.Second / time.Duration(targetFPS)

	threshold := p.spec.AcceptConfidence
	if threshold <= 0 {
		threshold = defaultAcceptThreshold
	}
	debounceWindow := p.spec.DebounceWindowSec
	if debounceWindow <= 0 {
		debounceWindow = defaultDebounceSeconds
	}

	source := capture.NewSource(p.spec)
	if err := source.Open(capture.OcrParams(targetFPS)); err != nil {
		slog.Error("ocr pipeline capture open failed, ending loop", "camera_id", p.cameraID, "error", err)
		p.running.Store(false)
		return
	}
	defer source.Close()

	var gate *motion.Gate
	if p.spec.EnableMotion {
		gate = motion.New(p.spec.MotionThreshold, p.spec.MotionMinArea)
		defer gate.Close()
	}

	for {
		select {
		case <-p.stopCh:
			return
		default:
		}

		start := time.Now()

		frame, ok := source.Read()
		if !ok {
			select {
			case <-p.stopCh:
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if gate != nil && !gate.Detect(frame.Mat) {
			frame.Close()
			observability.FramesSkippedNoMotion.WithLabelValues(p.cameraID).Inc()
			p.sleepRemainder(start, period)
			continue
		}

		image := frame.Mat
		if p.spec.EnableROI {
			image = roi.Crop(frame.Mat, p.spec.ROI)
		}

		recognizeStart := time.Now()
		result := p.router.Recognize(image)
		observability.OcrDuration.WithLabelValues(string(p.currentEngine.Load().(models.EngineTag))).Observe(time.Since(recognizeStart).Seconds())
		frame.Close()

		p.processedFrames.Add(1)
		p.fps.tick()
		observability.FramesProcessed.WithLabelValues(p.cameraID, string(models.RoleOCR)).Inc()

		p.maybeEmit(result, threshold, debounceWindow)
		p.sleepRemainder(start, period)
	}
}

func (p *OcrPipeline) sleepRemainder(start time.Time, period time.Duration) {
	if elapsed := time.Since(start); elapsed < period {
		select {
		case <-p.stopCh:
		case <-time.After(period - elapsed):
		}
	}
}

// maybeEmit applies the acceptance predicate and debouncer, then invokes
// the callback. Grounded on video_pipeline_ocr.py's process_frame tail.
func (p *OcrPipeline) maybeEmit(result models.OcrResult, threshold, debounceWindow float64) {
	if result.Text == "" || result.Confidence <= threshold || !plate.Validate(result.Text) {
		return
	}
	canonical := plate.Format(result.Text)
	now := time.Now()

	last := p.lastDetection.Load().(string)
	lastAt := p.lastDetectionAt.Load().(time.Time)
	if last == canonical && now.Sub(lastAt) < time.Duration(debounceWindow*float64(time.Second)) {
		return
	}

	p.lastDetection.Store(canonical)
	p.lastDetectionAt.Store(now)
	p.detectedPlates.Add(1)
	observability.PlatesDetected.WithLabelValues(p.cameraID, string(result.Engine)).Inc()

	det := models.Detection{
		CameraID:   p.cameraID,
		Plate:      canonical,
		Confidence: result.Confidence,
		Engine:     result.Engine,
		Timestamp:  now,
	}

	if p.callback == nil {
		return
	}
	if err := p.callback(det); err != nil {
		slog.Error("ocr callback failed", "camera_id", p.cameraID, "plate", canonical, "error", err)
	}
}
