package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"github.com/your-org/platerecon/internal/models"
)

func newFrame(w, h int) gocv.Mat {
	return gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
}

func TestCropNilRectReturnsSameFrame(t *testing.T) {
	frame := newFrame(640, 480)
	defer frame.Close()

	got := Crop(frame, nil)
	// Reference identity: a mutation through the returned Mat must be
	// visible on frame, since Crop(frame, nil) must not clone.
	got.SetUCharAt(0, 0, 42)
	assert.Equal(t, uint8(42), frame.GetUCharAt(0, 0))
}

func TestCropClampsToFrameBounds(t *testing.T) {
	frame := newFrame(100, 100)
	defer frame.Close()

	rect := &models.RoiRect{X1: -50, Y1: -50, X2: 200, Y2: 200}
	cropped := Crop(frame, rect)

	assert.LessOrEqual(t, cropped.Cols(), frame.Cols())
	assert.LessOrEqual(t, cropped.Rows(), frame.Rows())
	assert.GreaterOrEqual(t, cropped.Cols(), 0)
	assert.GreaterOrEqual(t, cropped.Rows(), 0)
}

func TestCropInvertedRectReturnsOriginalFrame(t *testing.T) {
	frame := newFrame(100, 100)
	defer frame.Close()

	rect := &models.RoiRect{X1: 80, Y1: 80, X2: 10, Y2: 10}
	got := Crop(frame, rect)
	got.SetUCharAt(0, 0, 7)
	assert.Equal(t, uint8(7), frame.GetUCharAt(0, 0))
}

func TestCropZeroAreaRectDoesNotPanic(t *testing.T) {
	frame := newFrame(100, 100)
	defer frame.Close()

	rect := &models.RoiRect{X1: 10, Y1: 10, X2: 10, Y2: 10}
	assert.NotPanics(t, func() {
		Crop(frame, rect)
	})
}
