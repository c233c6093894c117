package availability

import "wardrobe-rental-backend/internal/domain"

// Survives decides whether a freshly inserted reservation keeps its hold. The candidate
// survives when, at every instant of its effective window, fewer than capacity other
// active reservations cover that instant. Every other active row counts regardless of
// when it was stamped or inserted, so racing inserts that together exceed capacity can
// all lose but never all stay.
func Survives(capacity int32, reservations []domain.Reservation, candidateID string) bool {
	var candidate *domain.Reservation
	others := make([]domain.Reservation, 0, len(reservations))
	for i := range reservations {
		r := reservations[i]
		if !r.State.IsActive() {
			continue
		}
		if r.ID == candidateID {
			candidate = &reservations[i]
			continue
		}
		others = append(others, r)
	}
	if candidate == nil {
		return false
	}

	for _, s := range Counts(capacity, candidate.EffectiveWindow, others) {
		if s.Remaining <= 0 {
			return false
		}
	}
	return true
}
