package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func blankFrame(w, h int) gocv.Mat {
	return gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
}

func TestDetectWarmsUpOnFirstCall(t *testing.T) {
	g := New(0, 0) // defaults
	defer g.Close()

	frame := blankFrame(64, 64)
	defer frame.Close()

	assert.True(t, g.Detect(frame), "first call must return true as warm-up")
}

func TestDetectNoMotionBetweenIdenticalFrames(t *testing.T) {
	g := New(0, 0)
	defer g.Close()

	frame := blankFrame(64, 64)
	defer frame.Close()

	assert.True(t, g.Detect(frame))
	assert.False(t, g.Detect(frame), "identical consecutive frame must not register motion")
}
