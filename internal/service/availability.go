package service

import (
	"context"
	"errors"
	"time"

	"wardrobe-rental-backend/internal/availability"
	"wardrobe-rental-backend/internal/cache"
	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
)

type availabilityService struct {
	repos Repositories
	cache cache.AvailabilityCache
	cfg   domain.EngineConfig
}

func NewAvailabilityService(repos Repositories, c cache.AvailabilityCache, cfg domain.EngineConfig) AvailabilityService {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &availabilityService{repos: repos, cache: c, cfg: cfg}
}

func (s *availabilityService) ListUnitAvailability(ctx context.Context, unitID int32, from, till time.Time) (*UnitAvailability, error) {
	unit, err := s.repos.Units.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	lookup, err := s.lookupWindow(unit, from, till)
	if err != nil {
		return nil, err
	}
	ranges, err := s.bookable(ctx, unit, lookup)
	if err != nil {
		return nil, err
	}
	return &UnitAvailability{Unit: *unit, Lookup: lookup, Ranges: ranges}, nil
}

func (s *availabilityService) ListCollectionAvailability(ctx context.Context, collectionID int32, from, till time.Time) ([]UnitAvailability, error) {
	units, err := s.repos.Units.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	out := make([]UnitAvailability, 0, len(units))
	for i := range units {
		unit := &units[i]
		if !unit.Offerable() {
			continue
		}
		lookup, err := s.lookupWindow(unit, from, till)
		if err != nil {
			return nil, err
		}
		ranges, err := s.bookable(ctx, unit, lookup)
		if err != nil {
			return nil, err
		}
		if len(ranges) == 0 {
			continue
		}
		out = append(out, UnitAvailability{Unit: *unit, Lookup: lookup, Ranges: ranges})
	}
	return out, nil
}

func (s *availabilityService) ListUnavailable(ctx context.Context, unitID int32, from, till time.Time) ([]domain.DateWindow, error) {
	ua, err := s.ListUnitAvailability(ctx, unitID, from, till)
	if err != nil {
		return nil, err
	}
	return availability.Unavailable(ua.Lookup, ua.Ranges), nil
}

func (s *availabilityService) lookupWindow(unit *domain.RentalUnit, from, till time.Time) (domain.DateWindow, error) {
	grain := unit.Grain()
	h := s.cfg.Horizon(time.Now(), grain)
	return domain.NewDateWindow(from, till, grain).Clamp(h.Min, h.Max, true)
}

func (s *availabilityService) bookable(ctx context.Context, unit *domain.RentalUnit, lookup domain.DateWindow) ([]availability.Range, error) {
	if !unit.Offerable() {
		return nil, nil
	}

	cached, err := s.cache.Get(ctx, unit.ID, lookup)
	if err == nil {
		ranges := make([]availability.Range, 0, len(cached))
		for _, w := range cached {
			ranges = append(ranges, availability.NewRange(w))
		}
		return ranges, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn("Availability cache read failed", "unitID", unit.ID, "error", err)
	}

	ranges, err := computeBookable(ctx, s.repos, unit, lookup)
	if err != nil {
		return nil, err
	}

	windows := make([]domain.DateWindow, 0, len(ranges))
	for _, r := range ranges {
		windows = append(windows, r.Window)
	}
	if err := s.cache.Set(ctx, unit.ID, lookup, windows); err != nil {
		logger.Warn("Availability cache write failed", "unitID", unit.ID, "error", err)
	}
	return ranges, nil
}

// computeBookable loads the reservations overlapping lookup and runs the calculator.
// Stylist units also load the stylist's bookings held through other units.
func computeBookable(ctx context.Context, repos Repositories, unit *domain.RentalUnit, lookup domain.DateWindow) ([]availability.Range, error) {
	reservations, err := repos.Reservations.ListActiveOverlapping(ctx, []int32{unit.ID}, lookup)
	if err != nil {
		return nil, err
	}

	in := availability.Input{Unit: unit, Lookup: lookup, Reservations: reservations}
	if unit.Kind == domain.UnitKindStylist && unit.StylistID != nil && !unit.IsOnCallStylist() {
		busy, err := stylistBusy(ctx, repos, unit, lookup)
		if err != nil {
			return nil, err
		}
		in.StylistBusy = busy
	}
	return availability.Bookable(in), nil
}

func stylistBusy(ctx context.Context, repos Repositories, unit *domain.RentalUnit, lookup domain.DateWindow) ([]domain.Reservation, error) {
	units, err := repos.Units.ListByStylist(ctx, *unit.StylistID)
	if err != nil {
		return nil, err
	}
	var others []int32
	for _, u := range units {
		if u.ID != unit.ID {
			others = append(others, u.ID)
		}
	}
	if len(others) == 0 {
		return nil, nil
	}

	day := domain.NewDateWindow(domain.GrainDay.Truncate(lookup.From), domain.GrainDay.Truncate(lookup.Till).Add(23*time.Hour), domain.GrainHour)
	return repos.Reservations.ListActiveOverlapping(ctx, others, day)
}
