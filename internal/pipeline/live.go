// Package pipeline implements LivePipeline and OcrPipeline, the two
// independent per-camera capture loops. Grounded on
// original_source/backend/app/utils/video_pipeline_live.py and
// video_pipeline_ocr.py, restructured around the teacher's goroutine +
// bounded-join lifecycle (internal/ingest/manager.go's activeStream/cancel
// pattern) instead of Python threads.
package pipeline

import (
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/capture"
	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/observability"
)

const (
	livePreviewWidth  = 480
	livePreviewHeight = 360
	liveJPEGQuality   = 60
	defaultPreviewFPS = 20
)

// LivePipeline produces a fresh low-resolution preview frame with bounded
// latency. It shares nothing with OcrPipeline but the camera's stream
// source; it opens its own capture handle.
type LivePipeline struct {
	cameraID string
	spec     models.CameraSpec

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	cell       frameCell
	frameCount atomic.Int64
	fps        *fpsCounter
}

// NewLivePipeline returns a pipeline for spec. It does not start capturing
// until Start is called.
func NewLivePipeline(spec models.CameraSpec) *LivePipeline {
	return &LivePipeline{
		cameraID: spec.ID,
		spec:     spec,
		fps:      newFPSCounter(),
	}
}

// Start is idempotent: calling it while already running is a no-op.
func (p *LivePipeline) Start() {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.run()
}

// Stop signals the loop to exit and waits up to 2s for it to do so. If the
// loop has not exited by then, Stop returns anyway; the loop releases its
// own capture handle whenever it does finish.
func (p *LivePipeline) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)
	select {
	case <-p.doneCh:
	case <-time.After(2 * time.Second):
		slog.Warn("live pipeline stop timed out, abandoning loop", "camera_id", p.cameraID)
	}
}

// CurrentFrameJPEG returns the most recently captured frame JPEG-encoded at
// quality 60, or ok=false if nothing has been captured yet. Never blocks on
// the capture loop.
func (p *LivePipeline) CurrentFrameJPEG() ([]byte, bool) {
	return p.cell.jpeg(liveJPEGQuality)
}

// Stats returns a read-only snapshot of this pipeline's counters.
func (p *LivePipeline) Stats() models.PipelineStats {
	return models.PipelineStats{
		Role:       models.RoleLive,
		FrameCount: p.frameCount.Load(),
		ActualFPS:  p.fps.value(),
		Running:    p.running.Load(),
	}
}

func (p *LivePipeline) run() {
	defer close(p.doneCh)
	defer p.cell.close()

	targetFPS := p.spec.TargetPreviewFPS
	if targetFPS <= 0 {
		targetFPS = defaultPreviewFPS
	}
	period := time.Second / time.Duration(targetFPS)

	source := capture.NewSource(p.spec)
	if err := source.Open(capture.LivePreviewParams(targetFPS)); err != nil {
		slog.Error("live pipeline capture open failed, ending loop", "camera_id", p.cameraID, "error", err)
		p.running.Store(false)
		return
	}
	defer source.Close()

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

		resized := gocv.NewMat()
		gocv.Resize(frame.Mat, &resized, image.Pt(livePreviewWidth, livePreviewHeight), 0, 0, gocv.InterpolationLinear)
		frame.Close()

		p.cell.store(resized)
		p.frameCount.Add(1)
		p.fps.tick()
		observability.FramesProcessed.WithLabelValues(p.cameraID, string(models.RoleLive)).Inc()

		if elapsed := time.Since(start); elapsed < period {
			select {
			case <-p.stopCh:
				return
			case <-time.After(period - elapsed):
			}
		}
	}
}
