package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestFrameCellJpegNoFrameYet(t *testing.T) {
	var c frameCell
	_, ok := c.jpeg(60)
	assert.False(t, ok)
}

func TestFrameCellStoreThenJpeg(t *testing.T) {
	var c frameCell
	defer c.close()

	c.store(gocv.NewMatWithSize(360, 480, gocv.MatTypeCV8UC3))
	data, ok := c.jpeg(60)
	require := assert.New(t)
	require.True(ok)
	require.NotEmpty(data)
}

func TestFrameCellStoreReplacesPrevious(t *testing.T) {
	var c frameCell
	defer c.close()

	c.store(gocv.NewMatWithSize(360, 480, gocv.MatTypeCV8UC3))
	c.store(gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3))

	assert.True(t, c.has)
	assert.Equal(t, 100, c.mat.Cols())
}
