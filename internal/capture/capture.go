// Package capture owns the gocv.VideoCapture handle for one camera and the
// Frame type that wraps the gocv.Mat flowing through the dual pipeline
// engine. It plays the role ingest/ffmpeg.go plays in the teacher repo, but
// opens an in-process gocv.VideoCapture instead of piping an ffmpeg
// subprocess: webcam and RTSP sources are both handled by OpenCV's own
// backends, and ONVIF cameras are expected to already be resolved to an
// RTSP URL by the caller (the core has no ONVIF device-management client).
package capture

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

// Frame is one captured image. Seq is a sequence-number slot that
// Source.Read leaves at zero; no capture timestamp is recorded. The caller
// owns Mat and must call Close exactly once.
type Frame struct {
	Mat gocv.Mat
	Seq int64
}

// Close releases the underlying Mat. Safe to call on a zero-value Frame.
func (f Frame) Close() {
	f.Mat.Close()
}

// Source opens and re-opens the capture handle for one camera. It is not
// safe for concurrent use; each pipeline goroutine owns its own Source.
type Source struct {
	spec models.CameraSpec
	cap  *gocv.VideoCapture
}

// NewSource returns a Source for spec. It does not open the device yet.
func NewSource(spec models.CameraSpec) *Source {
	return &Source{spec: spec}
}

// Params requests the resolution and frame rate a role wants from the
// device. OpenCV backends treat these as hints: Set may be silently
// ignored by a backend/device that cannot honor it, so callers must not
// assume the capture ends up at exactly this size.
type Params struct {
	Width  int
	Height int
	FPS    int
}

// LivePreviewParams is what LivePipeline requests: spec.md's low-res
// preview capture (§4.7 step 2).
func LivePreviewParams(fps int) Params {
	return Params{Width: 640, Height: 480, FPS: fps}
}

// OcrParams is what OcrPipeline requests: a full-resolution second capture
// independent of the preview one (§4.8 step 1).
func OcrParams(fps int) Params {
	return Params{Width: 1920, Height: 1080, FPS: fps}
}

// Open opens (or re-opens) the underlying VideoCapture and requests params
// on it. Safe to call again after a prior handle has been closed or has
// gone bad.
func (s *Source) Open(params Params) error {
	s.Close()

	var cap *gocv.VideoCapture
	var err error

	switch s.spec.Kind {
	case models.SourceWebcam:
		cap, err = gocv.OpenVideoCapture(s.spec.WebcamIndex)
	case models.SourceRTSP, models.SourceONVIF:
		url := s.spec.RTSPURL
		if url == "" {
			return fmt.Errorf("capture: camera %s has no stream URL", s.spec.ID)
		}
		cap, err = gocv.OpenVideoCapture(url)
	default:
		return fmt.Errorf("capture: camera %s has unknown source kind %q", s.spec.ID, s.spec.Kind)
	}
	if err != nil {
		return fmt.Errorf("capture: open camera %s: %w", s.spec.ID, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return fmt.Errorf("capture: camera %s did not open", s.spec.ID)
	}

	if params.Width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(params.Width))
	}
	if params.Height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(params.Height))
	}
	if params.FPS > 0 {
		cap.Set(gocv.VideoCaptureFPS, float64(params.FPS))
	}

	s.cap = cap
	return nil
}

// Read blocks until the next frame is available. It returns ok=false
// (never an error) on end-of-stream or a transient read failure, mirroring
// cv2.VideoCapture.read()'s (frame, ok) contract: the caller decides
// whether to retry or reopen.
func (s *Source) Read() (Frame, bool) {
	if s.cap == nil {
		return Frame{}, false
	}
	mat := gocv.NewMat()
	if ok := s.cap.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return Frame{}, false
	}
	return Frame{Mat: mat}, true
}

// Close releases the capture handle. Safe to call multiple times.
func (s *Source) Close() {
	if s.cap != nil {
		s.cap.Close()
		s.cap = nil
	}
}
