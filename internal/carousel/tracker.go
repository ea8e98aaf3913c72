package carousel

import (
	"math"
	"sync"
)

const (
	DefaultResistance        = 0.2
	DefaultThresholdFraction = 0.25

	MediaResistance      = 0.3
	MediaThresholdPixels = 50

	// MaxOverscroll caps the damped drag past the first or last slide, in
	// percent of the container width.
	MaxOverscroll = 50.0
)

type Options struct {
	Slides int
	// Width of the container in pixels.
	Width float64
	// Resistance scales the displacement past the first or last slide.
	Resistance float64
	// ThresholdFraction of Width a drag must exceed to commit. Ignored when
	// ThresholdPixels is set.
	ThresholdFraction float64
	ThresholdPixels   float64
	// IgnoreVertical treats vertical-dominant gestures as scrolling.
	IgnoreVertical bool
	OnCommit       func(index int)
}

// SupersetOptions is the exercise carousel of a superset page.
func SupersetOptions(slides int, width float64) Options {
	return Options{
		Slides:            slides,
		Width:             width,
		Resistance:        DefaultResistance,
		ThresholdFraction: DefaultThresholdFraction,
	}
}

// MediaOptions is the image gallery, which lives inside a vertically
// scrolling page.
func MediaOptions(slides int, width float64) Options {
	return Options{
		Slides:          slides,
		Width:           width,
		Resistance:      MediaResistance,
		ThresholdPixels: MediaThresholdPixels,
		IgnoreVertical:  true,
	}
}

// Tracker turns one drag gesture at a time into a horizontal offset, in
// percent of the container width, and commits index changes of one slide.
type Tracker struct {
	mu       sync.Mutex
	opts     Options
	index    int
	offset   float64
	dragging bool
	startX   float64
	startY   float64
}

func NewTracker(opts Options) *Tracker {
	if opts.Resistance <= 0 || opts.Resistance > 1 {
		opts.Resistance = DefaultResistance
	}
	if opts.ThresholdPixels <= 0 && opts.ThresholdFraction <= 0 {
		opts.ThresholdFraction = DefaultThresholdFraction
	}
	if opts.Slides < 0 {
		opts.Slides = 0
	}
	return &Tracker{opts: opts}
}

func (t *Tracker) DragStart(x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dragging = true
	t.startX = x
	t.startY = y
	t.offset = t.baseLocked()
}

// DragMove returns the offset to render.
func (t *Tracker) DragMove(x, y float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dragging {
		return t.offset
	}

	dx, dy := x-t.startX, y-t.startY
	if t.opts.IgnoreVertical && math.Abs(dy) > math.Abs(dx) {
		t.offset = t.baseLocked()
		return t.offset
	}

	t.offset = t.resistLocked(t.baseLocked() + t.percentLocked(dx))
	return t.offset
}

// DragEnd commits a move to the adjacent slide when the drag was long enough
// and that slide exists, otherwise snaps back. It returns the current index.
func (t *Tracker) DragEnd(x, y float64) int {
	t.mu.Lock()
	if !t.dragging {
		idx := t.index
		t.mu.Unlock()
		return idx
	}
	t.dragging = false

	dx, dy := x-t.startX, y-t.startY
	target := t.index
	vertical := t.opts.IgnoreVertical && math.Abs(dy) > math.Abs(dx)
	if !vertical && math.Abs(dx) > t.thresholdLocked() {
		switch {
		case dx > 0 && t.index > 0:
			target = t.index - 1
		case dx < 0 && t.index < t.opts.Slides-1:
			target = t.index + 1
		}
	}
	return t.moveAndUnlock(target)
}

// Cancel abandons the gesture and snaps back.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dragging = false
	t.offset = t.baseLocked()
}

// GoTo moves to index when valid. It reports whether the index changed.
func (t *Tracker) GoTo(index int) bool {
	t.mu.Lock()
	if index < 0 || index >= t.opts.Slides || index == t.index {
		t.mu.Unlock()
		return false
	}
	t.moveAndUnlock(index)
	return true
}

func (t *Tracker) Next() bool {
	return t.GoTo(t.Index() + 1)
}

func (t *Tracker) Prev() bool {
	return t.GoTo(t.Index() - 1)
}

func (t *Tracker) Index() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.index
}

func (t *Tracker) Offset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

func (t *Tracker) Dragging() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dragging
}

// SetWidth follows container resizes.
func (t *Tracker) SetWidth(width float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opts.Width = width
}

// SetSlides changes the slide count, clamping the current index.
func (t *Tracker) SetSlides(slides int) {
	if slides < 0 {
		slides = 0
	}
	t.mu.Lock()
	t.opts.Slides = slides
	target := t.index
	if target > slides-1 {
		target = max(slides-1, 0)
	}
	if target == t.index {
		t.offset = t.baseLocked()
		t.mu.Unlock()
		return
	}
	t.moveAndUnlock(target)
}

// moveAndUnlock snaps to target and fires OnCommit outside the lock when
// the index changed.
func (t *Tracker) moveAndUnlock(target int) int {
	changed := target != t.index
	t.index = target
	t.offset = t.baseLocked()
	onCommit := t.opts.OnCommit
	t.mu.Unlock()

	if changed && onCommit != nil {
		onCommit(target)
	}
	return target
}

func (t *Tracker) baseLocked() float64 {
	return -float64(t.index) * 100
}

func (t *Tracker) percentLocked(dx float64) float64 {
	if t.opts.Width <= 0 {
		return 0
	}
	return dx / t.opts.Width * 100
}

func (t *Tracker) thresholdLocked() float64 {
	if t.opts.ThresholdPixels > 0 {
		return t.opts.ThresholdPixels
	}
	return t.opts.Width * t.opts.ThresholdFraction
}

func (t *Tracker) resistLocked(offset float64) float64 {
	upper := 0.0
	lower := -float64(max(t.opts.Slides-1, 0)) * 100
	switch {
	case offset > upper:
		return upper + min((offset-upper)*t.opts.Resistance, MaxOverscroll)
	case offset < lower:
		return lower - min((lower-offset)*t.opts.Resistance, MaxOverscroll)
	default:
		return offset
	}
}
