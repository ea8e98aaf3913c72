package training

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/timer"
	"github.com/2beens/fitcoach/internal/workout"

	log "github.com/sirupsen/logrus"
)

type Step string

const (
	StepExercise Step = "exercise"
	StepRest     Step = "rest"
	StepEnd      Step = "end"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
	StatusEnded   Status = "ended"
)

var ErrNotStarted = errors.New("training session not started")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=training_test

type ProgramSource interface {
	GetProgram(ctx context.Context, programID string) (*workout.Program, error)
	Refresh(ctx context.Context, programID string) (*workout.Program, error)
}

type Countdown interface {
	Start(seconds int)
	Pause()
	Resume()
	Stop()
	State() timer.State
	Remaining() int
	Formatted() string
}

type Params struct {
	ProgramID string
	Programs  ProgramSource
	Timer     Countdown
	Recorder  progress.Recorder
	// Navigate is called once the session ends or the user exits.
	Navigate func()
	Now      func() time.Time
	Metrics  *metrics.Manager
}

// Controller drives one training session through exercise, rest and end
// steps. Mutating calls are serialized; Snapshot may be called at any time,
// including from the timer observer.
type Controller struct {
	programID string
	programs  ProgramSource
	timer     Countdown
	recorder  progress.Recorder
	navigate  func()
	now       func() time.Time
	metrics   *metrics.Manager

	// serializes mutating operations, held while the timer is driven
	opMu sync.Mutex

	mu            sync.RWMutex
	status        Status
	err           error
	program       *workout.Program
	startID       string
	step          Step
	exercise      *workout.Exercise
	series        int
	superset      []workout.Exercise
	supersetIndex int
	next          *workout.Exercise
	boutStart     time.Time
	weightKg      *float64
	active        bool
}

func NewController(p Params) *Controller {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	navigate := p.Navigate
	if navigate == nil {
		navigate = func() {}
	}
	m := p.Metrics
	if m == nil {
		m = metrics.NewTestManager()
	}
	countdown := p.Timer
	if countdown == nil {
		countdown = timer.New()
	}
	return &Controller{
		programID: p.ProgramID,
		programs:  p.Programs,
		timer:     countdown,
		recorder:  p.Recorder,
		navigate:  navigate,
		now:       now,
		metrics:   m,
		status:    StatusIdle,
		series:    1,
	}
}

// Start resolves exerciseID in the program and enters the exercise step.
// When the program or exercise cannot be resolved the controller stays
// failed and no step changes; the caller may Retry.
func (c *Controller) Start(ctx context.Context, exerciseID string) error {
	return c.start(ctx, exerciseID, false)
}

// Retry repeats the last Start, forcing a program reload.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.RLock()
	exerciseID := c.startID
	c.mu.RUnlock()
	if exerciseID == "" {
		return ErrNotStarted
	}
	return c.start(ctx, exerciseID, true)
}

func (c *Controller) start(ctx context.Context, exerciseID string, force bool) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	c.startID = exerciseID
	c.status = StatusLoading
	c.err = nil
	c.mu.Unlock()

	var (
		program *workout.Program
		err     error
	)
	if force {
		program, err = c.programs.Refresh(ctx, c.programID)
	} else {
		program, err = c.programs.GetProgram(ctx, c.programID)
	}
	if err == nil {
		if _, found := program.FindExercise(exerciseID); !found {
			err = fmt.Errorf("%w: exercise %s in program %s", workout.ErrExerciseNotFound, exerciseID, c.programID)
		}
	}
	if err != nil {
		log.Errorf("training: start program [%s] exercise [%s]: %s", c.programID, exerciseID, err)
		c.mu.Lock()
		c.status = StatusFailed
		c.err = err
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.program = program
	pending := c.setExerciseLocked(exerciseID, c.now())
	c.step = StepExercise
	c.status = StatusReady
	if !c.active {
		c.active = true
		c.metrics.GaugeActiveSessions.Inc()
	}
	action := c.timerActionLocked()
	c.mu.Unlock()

	log.Debugf("training: session started at exercise [%s] of program [%s]", exerciseID, c.programID)
	c.metrics.CounterSessionTransitions.WithLabelValues(string(StepExercise)).Inc()
	c.flush(pending)
	action(c.timer)
	return nil
}

// Advance moves to rest, to the next exercise, or to the end. It is a no-op
// without a current exercise.
func (c *Controller) Advance() {
	c.opMu.Lock()

	c.mu.Lock()
	if c.status != StatusReady || c.exercise == nil || c.step == StepEnd {
		c.mu.Unlock()
		c.opMu.Unlock()
		return
	}

	now := c.now()
	var pending []progress.Record
	switch {
	case c.step == StepExercise && c.exercise.RestSeconds > 0:
		c.step = StepRest
	case c.next != nil:
		pending = c.setExerciseLocked(c.next.ID, now)
		c.step = StepExercise
	default:
		pending = c.endLocked(now)
	}
	step := c.step
	action := c.timerActionLocked()
	c.mu.Unlock()

	log.Debugf("training: advanced to %s", step)
	c.metrics.CounterSessionTransitions.WithLabelValues(string(step)).Inc()
	c.flush(pending)
	action(c.timer)
	c.opMu.Unlock()

	if step == StepEnd {
		c.leave()
	}
}

// AdvanceSeries starts the next series. Inside a superset it goes back to
// the group's first exercise.
func (c *Controller) AdvanceSeries() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.status != StatusReady || c.exercise == nil || c.step == StepEnd {
		c.mu.Unlock()
		return
	}

	c.series++
	var pending []progress.Record
	if len(c.superset) > 1 {
		pending = c.setExerciseLocked(c.superset[0].ID, c.now())
	}
	c.step = StepExercise
	series := c.series
	action := c.timerActionLocked()
	c.mu.Unlock()

	log.Debugf("training: series %d", series)
	c.metrics.CounterSessionTransitions.WithLabelValues("series").Inc()
	c.flush(pending)
	action(c.timer)
}

// SetWeight attaches the weight used to the current bout's progress record.
func (c *Controller) SetWeight(kg *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kg == nil {
		c.weightKg = nil
		return
	}
	w := *kg
	c.weightKg = &w
}

func (c *Controller) PauseTimer() {
	c.timer.Pause()
}

func (c *Controller) ResumeTimer() {
	c.mu.RLock()
	ready := c.status == StatusReady && c.exercise != nil
	c.mu.RUnlock()
	if ready {
		c.timer.Resume()
	}
}

// Exit abandons the session: the timer stops and the navigator is called.
// The open bout is not recorded.
func (c *Controller) Exit() {
	c.Close()
	c.leave()
}

// Close stops the timer. It must not be called from the timer observer.
func (c *Controller) Close() {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if closer, ok := c.timer.(interface{ Close() }); ok {
		closer.Close()
	} else {
		c.timer.Stop()
	}
	c.mu.Lock()
	c.deactivateLocked()
	c.mu.Unlock()
}

func (c *Controller) leave() {
	log.Debugf("training: leaving program [%s]", c.programID)
	c.navigate()
}

// setExerciseLocked binds the exercise and its superset context. Leaving a
// bout yields its progress record; re-entering the same group keeps the
// bout and the series count.
func (c *Controller) setExerciseLocked(exerciseID string, now time.Time) []progress.Record {
	pos, ok := workout.Locate(c.program, exerciseID)
	if !ok {
		// the program snapshot is immutable and was checked on Start
		log.Errorf("training: exercise [%s] vanished from program [%s]", exerciseID, c.programID)
		return nil
	}

	var pending []progress.Record
	if !containsExercise(c.superset, exerciseID) {
		if c.exercise != nil {
			if rec, ok := c.boutRecordLocked(now); ok {
				pending = append(pending, rec)
			}
		}
		c.series = 1
		c.boutStart = now
		c.weightKg = nil
	}

	ex := pos.Exercise
	c.exercise = &ex
	c.superset = pos.Siblings
	c.supersetIndex = pos.Index
	c.next = pos.Next
	return pending
}

func (c *Controller) endLocked(now time.Time) []progress.Record {
	var pending []progress.Record
	if rec, ok := c.boutRecordLocked(now); ok {
		pending = append(pending, rec)
	}

	c.step = StepEnd
	c.status = StatusEnded
	c.exercise = nil
	c.series = 1
	c.superset = nil
	c.supersetIndex = 0
	c.next = nil
	c.boutStart = time.Time{}
	c.weightKg = nil
	c.deactivateLocked()
	return pending
}

func (c *Controller) boutRecordLocked(now time.Time) (progress.Record, bool) {
	if c.boutStart.IsZero() || len(c.superset) == 0 {
		return progress.Record{}, false
	}
	ids := make([]string, 0, len(c.superset))
	for _, ex := range c.superset {
		ids = append(ids, ex.ID)
	}
	return progress.Record{
		ProgramID:   c.programID,
		ExerciseIDs: ids,
		StartedAt:   c.boutStart,
		EndedAt:     now,
		Series:      c.series,
		WeightKg:    c.weightKg,
	}, true
}

func (c *Controller) deactivateLocked() {
	if c.active {
		c.active = false
		c.metrics.GaugeActiveSessions.Dec()
	}
}

// timerActionLocked decides how the timer follows the new state. The action
// runs after the state lock is released so timer observers can read Snapshot.
func (c *Controller) timerActionLocked() func(Countdown) {
	ex := c.exercise
	switch {
	case ex != nil && c.step == StepExercise && ex.IsTimed() && ex.DurationSeconds > 0:
		seconds := ex.DurationSeconds
		return func(t Countdown) { t.Start(seconds) }
	case ex != nil && c.step == StepRest && ex.RestSeconds > 0:
		seconds := ex.RestSeconds
		return func(t Countdown) { t.Start(seconds) }
	default:
		return func(t Countdown) { t.Stop() }
	}
}

func (c *Controller) flush(records []progress.Record) {
	if c.recorder == nil {
		return
	}
	for _, rec := range records {
		c.recorder.Record(rec)
	}
}

func containsExercise(exercises []workout.Exercise, exerciseID string) bool {
	for i := range exercises {
		if exercises[i].ID == exerciseID {
			return true
		}
	}
	return false
}
