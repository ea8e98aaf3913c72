package timer

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const Cadence = time.Second

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateExpired State = "expired"
)

// Ticker is the cadence source; *time.Ticker satisfies it through realTicker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Event is passed to the observer after every change.
type Event struct {
	State     State
	Remaining int
}

type Option func(*Timer)

func WithTickerFactory(f TickerFactory) Option {
	return func(t *Timer) {
		t.newTicker = f
	}
}

// WithObserver registers fn to be called after every state or remaining
// change. It runs on the timer goroutine for ticks and must not call Close.
func WithObserver(fn func(Event)) Option {
	return func(t *Timer) {
		t.observer = fn
	}
}

// Timer is a countdown with one active cadence at a time. Reaching zero only
// marks it expired; what happens next is up to the caller.
type Timer struct {
	mu         sync.Mutex
	state      State
	remaining  int
	duration   int
	generation uint64
	stop       chan struct{}

	newTicker TickerFactory
	observer  func(Event)
	wg        sync.WaitGroup
}

func New(opts ...Option) *Timer {
	t := &Timer{
		state:     StateIdle,
		newTicker: NewRealTicker,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start cancels any running cadence and counts down from seconds.
func (t *Timer) Start(seconds int) {
	if seconds < 0 {
		seconds = 0
	}

	t.mu.Lock()
	t.cancelLocked()
	t.duration = seconds
	t.remaining = seconds
	if seconds == 0 {
		t.state = StateExpired
	} else {
		t.state = StateRunning
		t.launchLocked()
	}
	ev := t.eventLocked()
	t.mu.Unlock()

	log.Tracef("timer: started with %ds", seconds)
	t.notify(ev)
}

// Pause freezes the remaining time. No-op unless running.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.state = StatePaused
	ev := t.eventLocked()
	t.mu.Unlock()

	t.notify(ev)
}

// Resume continues a paused countdown. In any other case, or with nothing
// left, it restarts from the last duration.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state != StatePaused || t.remaining <= 0 {
		duration := t.duration
		t.mu.Unlock()
		t.Start(duration)
		return
	}
	t.state = StateRunning
	t.launchLocked()
	ev := t.eventLocked()
	t.mu.Unlock()

	t.notify(ev)
}

// Stop cancels the cadence and resets to idle with nothing remaining.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.state == StateIdle && t.stop == nil {
		t.mu.Unlock()
		return
	}
	t.cancelLocked()
	t.remaining = 0
	t.state = StateIdle
	ev := t.eventLocked()
	t.mu.Unlock()

	t.notify(ev)
}

// Close stops the timer and waits for the cadence goroutine to exit.
func (t *Timer) Close() {
	t.Stop()
	t.wg.Wait()
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Duration is the last duration passed to Start.
func (t *Timer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Formatted renders the remaining time as MM:SS.
func (t *Timer) Formatted() string {
	return FormatSeconds(t.Remaining())
}

func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (t *Timer) launchLocked() {
	t.generation++
	stop := make(chan struct{})
	t.stop = stop
	ticker := t.newTicker(Cadence)

	t.wg.Add(1)
	go t.run(t.generation, ticker, stop)
}

func (t *Timer) cancelLocked() {
	t.generation++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) run(generation uint64, ticker Ticker, stop <-chan struct{}) {
	defer t.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !t.tick(generation) {
				return
			}
		}
	}
}

// tick reports whether the cadence should keep going.
func (t *Timer) tick(generation uint64) bool {
	t.mu.Lock()
	// a replaced cadence must never decrement
	if generation != t.generation || t.state != StateRunning {
		t.mu.Unlock()
		return false
	}

	if t.remaining > 0 {
		t.remaining--
	}
	keepGoing := true
	if t.remaining == 0 {
		t.state = StateExpired
		t.stop = nil
		keepGoing = false
	}
	ev := t.eventLocked()
	t.mu.Unlock()

	if !keepGoing {
		log.Traceln("timer: expired")
	}
	t.notify(ev)
	return keepGoing
}

func (t *Timer) eventLocked() Event {
	return Event{State: t.state, Remaining: t.remaining}
}

func (t *Timer) notify(ev Event) {
	if t.observer != nil {
		t.observer(ev)
	}
}
