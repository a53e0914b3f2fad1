// Package roi implements the stateless region-of-interest crop applied to
// OCR pipeline frames before they reach the recognizers. Grounded on
// original_source/backend/app/utils/roi_extractor.py's extract_roi, with
// gocv.Mat sub-matrix views standing in for numpy slicing.
package roi

import (
	"image"

	"gocv.io/x/gocv"
	"github.com/your-org/platerecon/internal/models"
)

// Crop returns the sub-region of frame described by rect, clamped to the
// frame's own bounds. A nil rect, or a rect with no usable area after
// clamping, returns frame unchanged (same Mat, not a copy) so callers never
// pay for a crop that does nothing.
func Crop(frame gocv.Mat, rect *models.RoiRect) gocv.Mat {
	if rect == nil {
		return frame
	}

	w := frame.Cols()
	h := frame.Rows()

	x1 := clamp(rect.X1, 0, w)
	y1 := clamp(rect.Y1, 0, h)
	x2 := clamp(rect.X2, 0, w)
	y2 := clamp(rect.Y2, 0, h)

	if x2 <= x1 || y2 <= y1 {
		return frame
	}

	return frame.Region(image.Rect(x1, y1, x2, y2))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
