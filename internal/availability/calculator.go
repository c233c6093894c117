// Package availability turns a unit's capacity and its overlapping reservations into
// bookable ranges. Everything here is pure and safe for concurrent use.
package availability

import (
	"sort"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

// Slot is the remaining capacity at one instant of a lookup window.
type Slot struct {
	At        time.Time
	Remaining int32
}

// Range is a contiguous run of instants with capacity left.
type Range struct {
	Window   domain.DateWindow `json:"window"`
	Instants []time.Time       `json:"instants"`
}

// NewRange expands w into its member instants.
func NewRange(w domain.DateWindow) Range {
	return Range{Window: w, Instants: w.ToSequence()}
}

// Counts seeds every instant of lookup with capacity and takes one unit off for each
// active reservation covering it. The result does not depend on reservation order.
func Counts(capacity int32, lookup domain.DateWindow, reservations []domain.Reservation) []Slot {
	seq := lookup.ToSequence()
	slots := make([]Slot, len(seq))
	index := make(map[int64]int, len(seq))
	for i, at := range seq {
		slots[i] = Slot{At: at, Remaining: capacity}
		index[at.Unix()] = i
	}

	for _, r := range reservations {
		if !r.State.IsActive() {
			continue
		}
		overlap, ok := r.EffectiveWindow.Intersect(lookup)
		if !ok {
			continue
		}
		for _, at := range overlap.ToSequence() {
			if i, ok := index[at.Unix()]; ok {
				slots[i].Remaining--
			}
		}
	}
	return slots
}

// Free keeps the instants that still have capacity.
func Free(slots []Slot) []time.Time {
	free := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.Remaining > 0 {
			free = append(free, s.At)
		}
	}
	return free
}

// Collapse merges ascending instants into maximal runs where neighbours are exactly one
// grain step apart.
func Collapse(grain domain.Grain, instants []time.Time) []domain.DateWindow {
	if len(instants) == 0 {
		return nil
	}
	sorted := make([]time.Time, len(instants))
	copy(sorted, instants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var out []domain.DateWindow
	cur := domain.DateWindow{From: sorted[0], Till: sorted[0], Grain: grain}
	for _, at := range sorted[1:] {
		switch {
		case at.Equal(cur.Till):
			continue
		case grain.Add(cur.Till, 1).Equal(at):
			cur.Till = at
		default:
			out = append(out, cur)
			cur = domain.DateWindow{From: at, Till: at, Grain: grain}
		}
	}
	return append(out, cur)
}

// ShrinkAll trims lead instants off the front and trail instants off the back of every
// range. Ranges that vanish are dropped.
func ShrinkAll(ranges []domain.DateWindow, lead, trail int) []domain.DateWindow {
	out := make([]domain.DateWindow, 0, len(ranges))
	for _, r := range ranges {
		if shrunk, ok := r.Shrink(lead, trail); ok {
			out = append(out, shrunk)
		}
	}
	return out
}

// FilterMin drops ranges shorter than min instants.
func FilterMin(ranges []domain.DateWindow, min int) []domain.DateWindow {
	out := make([]domain.DateWindow, 0, len(ranges))
	for _, r := range ranges {
		if r.Len() >= min {
			out = append(out, r)
		}
	}
	return out
}

// Input describes one unit lookup. StylistBusy lists confirmed bookings the same stylist
// holds through other units; they block their instants unless the stylist is on call.
type Input struct {
	Unit         *domain.RentalUnit
	Lookup       domain.DateWindow
	Reservations []domain.Reservation
	StylistBusy  []domain.Reservation
}

// Bookable runs the full pipeline: count, drop exhausted instants, collapse, shrink by
// buffers and filter by minimum duration.
func Bookable(in Input) []Range {
	if in.Unit == nil || !in.Lookup.Defined() || in.Unit.Capacity() <= 0 {
		return nil
	}

	slots := Counts(in.Unit.Capacity(), in.Lookup, in.Reservations)
	if in.Unit.Kind == domain.UnitKindStylist && !in.Unit.IsOnCallStylist() {
		slots = subtractBusy(slots, in.StylistBusy)
	}

	windows := Collapse(in.Lookup.Grain, Free(slots))
	windows = ShrinkAll(windows, int(in.Unit.LeadBuffer), int(in.Unit.TrailBuffer))
	windows = FilterMin(windows, int(in.Unit.MinimumDuration))

	out := make([]Range, 0, len(windows))
	for _, w := range windows {
		out = append(out, NewRange(w))
	}
	return out
}

func subtractBusy(slots []Slot, busy []domain.Reservation) []Slot {
	for _, b := range busy {
		if !b.State.IsActive() || !b.State.Has(domain.StateConfirmed) {
			continue
		}
		for i := range slots {
			if b.EffectiveWindow.Contains(slots[i].At) {
				slots[i].Remaining = 0
			}
		}
	}
	return slots
}

// Unavailable inverts a single-unit result against the lookup window.
func Unavailable(lookup domain.DateWindow, bookable []Range) []domain.DateWindow {
	covered := make(map[int64]bool)
	for _, r := range bookable {
		for _, at := range r.Window.ToSequence() {
			covered[at.Unix()] = true
		}
	}
	var gaps []time.Time
	for _, at := range lookup.ToSequence() {
		if !covered[at.Unix()] {
			gaps = append(gaps, at)
		}
	}
	return Collapse(lookup.Grain, gaps)
}

// Covers reports whether one of the ranges fully contains w.
func Covers(ranges []Range, w domain.DateWindow) bool {
	for _, r := range ranges {
		if !w.From.Before(r.Window.From) && !w.Till.After(r.Window.Till) {
			return true
		}
	}
	return false
}
