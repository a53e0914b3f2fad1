package pipeline

import (
	"sync"

	"gocv.io/x/gocv"
)

// frameCell is the single-slot "current frame" cell shared by LivePipeline:
// a single writer (the capture loop) replaces it every iteration, a reader
// clones it on demand. There is no queueing — the spec requires older
// frames to be dropped, never buffered.
type frameCell struct {
	mu  sync.Mutex
	mat gocv.Mat
	has bool
}

// store replaces the held frame, releasing the previous one. Takes
// ownership of mat.
func (c *frameCell) store(mat gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has {
		c.mat.Close()
	}
	c.mat = mat
	c.has = true
}

// jpeg encodes the currently held frame at the given quality and returns
// it, or ok=false if no frame has been stored yet. Bounded by a single
// clone + encode; never waits on the capture loop.
func (c *frameCell) jpeg(quality int) (data []byte, ok bool) {
	c.mu.Lock()
	if !c.has {
		c.mu.Unlock()
		return nil, false
	}
	clone := c.mat.Clone()
	c.mu.Unlock()
	defer clone.Close()

	buf, err := gocv.IMEncodeWithParams(".jpg", clone, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, false
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, true
}

// close releases the held frame, if any.
func (c *frameCell) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has {
		c.mat.Close()
		c.has = false
	}
}
