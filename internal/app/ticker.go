package app

import (
	"sync"
	"time"

	"github.com/emmett/voxtype/internal/audio"
	"github.com/emmett/voxtype/internal/output"
)

// progressTicker reports elapsed time and buffered samples while recording
type progressTicker struct {
	stop chan struct{}
	wg   sync.WaitGroup
}

func startProgressTicker(interval time.Duration, buf *audio.SampleBuffer, sink output.Sink) *progressTicker {
	t := &progressTicker{stop: make(chan struct{})}
	started := time.Now()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tick.C:
				n := 0
				if buf != nil {
					n = buf.Len()
				}
				sink.SetProgress(time.Since(started), n)
			}
		}
	}()
	return t
}

// Stop halts the ticker and waits for its goroutine
func (t *progressTicker) Stop() {
	if t == nil {
		return
	}
	close(t.stop)
	t.wg.Wait()
}
