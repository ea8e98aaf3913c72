package training

import (
	"github.com/2beens/fitcoach/internal/timer"
	"github.com/2beens/fitcoach/internal/workout"
)

// Snapshot is an immutable view of the session for rendering.
type Snapshot struct {
	ProgramID string
	Status    Status
	Err       error

	Step          Step
	Exercise      *workout.Exercise
	Series        int
	IsSuperset    bool
	Superset      []workout.Exercise
	SupersetIndex int
	Next          *workout.Exercise

	TimerState     timer.State
	TimerRemaining int
	TimerFormatted string

	HasNextExercise         bool
	HasNextRest             bool
	HasNextSupersetExercise bool
	HasNextSeries           bool
	HasEnding               bool
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	s := Snapshot{
		ProgramID:               c.programID,
		Status:                  c.status,
		Err:                     c.err,
		Step:                    c.step,
		Series:                  c.series,
		IsSuperset:              c.isSupersetLocked(),
		SupersetIndex:           c.supersetIndex,
		HasNextExercise:         c.hasNextExerciseLocked(),
		HasNextRest:             c.hasNextRestLocked(),
		HasNextSupersetExercise: c.hasNextSupersetExerciseLocked(),
		HasNextSeries:           c.hasNextSeriesLocked(),
		HasEnding:               c.hasEndingLocked(),
	}
	if c.exercise != nil {
		ex := *c.exercise
		s.Exercise = &ex
	}
	if c.next != nil {
		next := *c.next
		s.Next = &next
	}
	s.Superset = append([]workout.Exercise(nil), c.superset...)
	c.mu.RUnlock()

	s.TimerState = c.timer.State()
	s.TimerRemaining = c.timer.Remaining()
	s.TimerFormatted = c.timer.Formatted()
	return s
}

func (c *Controller) Step() Step {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.step
}

func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller) Series() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.series
}

// Exercise returns a copy of the current exercise, nil when none is bound.
func (c *Controller) Exercise() *workout.Exercise {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.exercise == nil {
		return nil
	}
	ex := *c.exercise
	return &ex
}

// HasNextExercise: no further superset exercise, at a step boundary, and a
// next exercise exists.
func (c *Controller) HasNextExercise() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasNextExerciseLocked()
}

func (c *Controller) HasNextRest() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasNextRestLocked()
}

func (c *Controller) HasNextSupersetExercise() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasNextSupersetExerciseLocked()
}

func (c *Controller) HasNextSeries() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasNextSeriesLocked()
}

func (c *Controller) HasEnding() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasEndingLocked()
}

func (c *Controller) isSupersetLocked() bool {
	return len(c.superset) > 1
}

// atBoundaryLocked: an exercise without rest is done, or the rest is running.
func (c *Controller) atBoundaryLocked() bool {
	if c.exercise == nil {
		return false
	}
	return (c.step == StepExercise && c.exercise.RestSeconds == 0) || c.step == StepRest
}

func (c *Controller) hasNextExerciseLocked() bool {
	return !c.hasNextSupersetExerciseLocked() && c.atBoundaryLocked() && c.next != nil
}

func (c *Controller) hasNextRestLocked() bool {
	return c.exercise != nil && c.step == StepExercise && c.exercise.RestSeconds > 0
}

func (c *Controller) hasNextSupersetExerciseLocked() bool {
	return c.exercise != nil && c.isSupersetLocked() && c.supersetIndex < len(c.superset)-1
}

func (c *Controller) hasNextSeriesLocked() bool {
	if !c.atBoundaryLocked() {
		return false
	}
	return !c.isSupersetLocked() || c.supersetIndex == len(c.superset)-1
}

func (c *Controller) hasEndingLocked() bool {
	return c.atBoundaryLocked() && c.next == nil
}
