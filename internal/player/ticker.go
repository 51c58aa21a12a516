package player

import (
	"sync"
	"time"
)

// Ticker drives the engine's clock. It is armed whenever playback is active
// with a loaded track and disarmed otherwise; Start and Stop are idempotent
// so redundant transitions are harmless.
type Ticker struct {
	engine   *Engine
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewTicker builds a stopped ticker. interval <= 0 defaults to one second.
func NewTicker(e *Engine, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{engine: e, interval: interval}
}

// Bind wires the ticker to the engine's play/pause and track transitions so
// it owns the clock exclusively.
func (t *Ticker) Bind() {
	t.engine.SetTransitionHook(func(playing, hasTrack bool) {
		if playing && hasTrack {
			t.Start()
		} else {
			t.Stop()
		}
	})
}

func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	go t.loop(t.stop)
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	close(t.stop)
	t.running = false
}

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) loop(stop chan struct{}) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			t.engine.Tick()
		}
	}
}
