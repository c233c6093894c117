package domain

import (
	"fmt"
	"time"
)

// Grain is the granularity of a DateWindow. Apparel books by day, stylists by hour slot.
type Grain int

const (
	GrainDay Grain = iota
	GrainHour
)

func (g Grain) String() string {
	if g == GrainHour {
		return "hour"
	}
	return "day"
}

// Truncate snaps t onto the grain in UTC.
func (g Grain) Truncate(t time.Time) time.Time {
	t = t.UTC()
	if g == GrainHour {
		return t.Truncate(time.Hour)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Add moves t by n grain steps. Day steps use calendar arithmetic.
func (g Grain) Add(t time.Time, n int) time.Time {
	if g == GrainHour {
		return t.Add(time.Duration(n) * time.Hour)
	}
	return t.AddDate(0, 0, n)
}

// Steps counts whole grain steps from a to b.
func (g Grain) Steps(a, b time.Time) int {
	if g == GrainHour {
		return int(b.Sub(a) / time.Hour)
	}
	return int(b.Sub(a).Round(time.Hour) / (24 * time.Hour))
}

// Horizon bounds the instants a customer may book. Zero endpoints are unbounded.
type Horizon struct {
	Min time.Time
	Max time.Time
}

// DateWindow is an inclusive interval [From, Till] at a fixed grain.
// All operations return new values.
type DateWindow struct {
	From  time.Time `json:"from"`
	Till  time.Time `json:"till"`
	Grain Grain     `json:"-"`
}

// NewDateWindow builds a window with both endpoints snapped to the grain.
func NewDateWindow(from, till time.Time, grain Grain) DateWindow {
	w := DateWindow{Grain: grain}
	if !from.IsZero() {
		w.From = grain.Truncate(from)
	}
	if !till.IsZero() {
		w.Till = grain.Truncate(till)
	}
	return w
}

func (w DateWindow) Defined() bool {
	return !w.From.IsZero() && !w.Till.IsZero()
}

// Valid reports whether the window is defined, ordered and inside the horizon.
func (w DateWindow) Valid(h Horizon) bool {
	if !w.Defined() || w.From.After(w.Till) {
		return false
	}
	if !h.Min.IsZero() && w.From.Before(h.Min) {
		return false
	}
	if !h.Max.IsZero() && w.Till.After(h.Max) {
		return false
	}
	return true
}

// Clamp truncates the endpoints to [min, max]. With hard set the result must still be
// a well-formed window, otherwise ErrInvalidWindow is returned.
func (w DateWindow) Clamp(min, max time.Time, hard bool) (DateWindow, error) {
	out := w
	if !min.IsZero() && (out.From.IsZero() || out.From.Before(min)) {
		out.From = w.Grain.Truncate(min)
	}
	if !max.IsZero() && (out.Till.IsZero() || out.Till.After(max)) {
		out.Till = w.Grain.Truncate(max)
	}
	if hard && (!out.Defined() || out.From.After(out.Till)) {
		return out, NewError(ErrorKindInvalidWindow, "window is empty after clamping to the booking horizon")
	}
	return out, nil
}

// Expand moves From earlier by lead steps and Till later by trail steps.
func (w DateWindow) Expand(lead, trail int) DateWindow {
	return DateWindow{
		From:  w.Grain.Add(w.From, -lead),
		Till:  w.Grain.Add(w.Till, trail),
		Grain: w.Grain,
	}
}

// Shrink is the inverse of Expand. ok is false when nothing is left.
func (w DateWindow) Shrink(lead, trail int) (DateWindow, bool) {
	out := DateWindow{
		From:  w.Grain.Add(w.From, lead),
		Till:  w.Grain.Add(w.Till, -trail),
		Grain: w.Grain,
	}
	return out, !out.From.After(out.Till)
}

// Len is the number of instants the window covers.
func (w DateWindow) Len() int {
	if !w.Defined() || w.From.After(w.Till) {
		return 0
	}
	return w.Grain.Steps(w.From, w.Till) + 1
}

// ToSequence lists the covered instants in ascending order.
func (w DateWindow) ToSequence() []time.Time {
	n := w.Len()
	seq := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		seq = append(seq, w.Grain.Add(w.From, i))
	}
	return seq
}

func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.Till)
}

func (w DateWindow) Overlaps(o DateWindow) bool {
	return !w.From.After(o.Till) && !o.From.After(w.Till)
}

// Intersect returns the common part of two windows.
func (w DateWindow) Intersect(o DateWindow) (DateWindow, bool) {
	if !w.Overlaps(o) {
		return DateWindow{Grain: w.Grain}, false
	}
	out := DateWindow{From: w.From, Till: w.Till, Grain: w.Grain}
	if o.From.After(out.From) {
		out.From = o.From
	}
	if o.Till.Before(out.Till) {
		out.Till = o.Till
	}
	return out, true
}

func (w DateWindow) Equal(o DateWindow) bool {
	return w.Grain == o.Grain && w.From.Equal(o.From) && w.Till.Equal(o.Till)
}

func (w DateWindow) String() string {
	if w.Grain == GrainHour {
		return fmt.Sprintf("%s..%s", w.From.Format("2006-01-02T15:04"), w.Till.Format("2006-01-02T15:04"))
	}
	return fmt.Sprintf("%s..%s", w.From.Format("2006-01-02"), w.Till.Format("2006-01-02"))
}
