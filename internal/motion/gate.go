// Package motion implements the per-pipeline frame differencer that gates
// OCR work on the OCR pipeline's full-resolution captures. Grounded on
// original_source/backend/app/utils/motion_detector.py, reimplemented with
// gocv (gocv.io/x/gocv) instead of python cv2 — same algorithm: grayscale ->
// Gaussian blur -> absdiff vs previous -> threshold -> dilate -> external
// contours -> area test.
package motion

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	DefaultThreshold = 30
	DefaultMinArea   = 500.0
)

// Gate is stateful and not thread-safe; one instance belongs to exactly one
// OcrPipeline.
type Gate struct {
	threshold int
	minArea   float64

	prev    gocv.Mat
	hasPrev bool
}

// New returns a Gate with the given threshold (0-255 pixel diff) and minimum
// contour area in px^2. Values <= 0 fall back to the spec defaults.
func New(threshold int, minArea float64) *Gate {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if minArea <= 0 {
		minArea = DefaultMinArea
	}
	return &Gate{threshold: threshold, minArea: minArea}
}

// Close releases the retained previous-frame buffer.
func (g *Gate) Close() {
	if g.hasPrev {
		g.prev.Close()
		g.hasPrev = false
	}
}

// Detect reports whether frame contains motion relative to the previous call.
// The very first call always returns true (pipeline warm-up) and stores the
// frame. Any internal processing error fails open (returns true) so OCR
// still runs rather than silently starving.
func (g *Gate) Detect(frame gocv.Mat) (motion bool) {
	defer func() {
		if r := recover(); r != nil {
			motion = true
		}
	}()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(gray, &gray, image.Pt(21, 21), 0, 0, gocv.BorderDefault)

	if !g.hasPrev {
		g.prev = gray.Clone()
		g.hasPrev = true
		return true
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(g.prev, gray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, float32(g.threshold), 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.DilateWithParams(thresh, &dilated, kernel, image.Pt(-1, -1), 2, gocv.BorderConstant, gocv.Scalar{})

	contours := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	found := false
	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) >= g.minArea {
			found = true
			break
		}
	}

	g.prev.Close()
	g.prev = gray.Clone()

	return found
}
