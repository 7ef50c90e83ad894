package trace

import (
	"strconv"
	"sync"
	"time"
)

// StartHeartbeat emits a tick every interval until the returned stop is
// called. Ticks with no span ends between them point at a stuck file or rule.
// stop waits for the ticker goroutine and may be called more than once.
func StartHeartbeat(t Tracer, interval time.Duration) (stop func()) {
	if !Enabled(t) || interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case now := <-ticker.C:
				t.Emit(&Event{
					At:     now,
					Seq:    seq.Add(1),
					Kind:   KindTick,
					Scope:  ScopeRun,
					Name:   "heartbeat",
					Detail: "#" + strconv.Itoa(n),
				})
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}
}
