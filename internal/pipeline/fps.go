package pipeline

import (
	"sync/atomic"
	"time"
)

// fpsCounter computes actual FPS over rolling 1-second windows from a
// count of successful reads, per spec §4.7 step 5.
type fpsCounter struct {
	windowStart time.Time
	windowCount int64
	current     atomic.Value // float64
}

func newFPSCounter() *fpsCounter {
	f := &fpsCounter{windowStart: time.Now()}
	f.current.Store(float64(0))
	return f
}

// tick records one successful read and rolls the window over once a second
// has elapsed.
func (f *fpsCounter) tick() {
	f.windowCount++
	elapsed := time.Since(f.windowStart)
	if elapsed >= time.Second {
		f.current.Store(float64(f.windowCount) / elapsed.Seconds())
		f.windowCount = 0
		f.windowStart = time.Now()
	}
}

func (f *fpsCounter) value() float64 {
	return f.current.Load().(float64)
}
