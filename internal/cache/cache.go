package cache

import (
	"context"
	"errors"

	"wardrobe-rental-backend/internal/domain"
)

// AvailabilityCache stores the bookable windows computed for a unit and lookup window.
// Invalidate drops everything cached for a unit.
type AvailabilityCache interface {
	Get(ctx context.Context, unitID int32, lookup domain.DateWindow) ([]domain.DateWindow, error)
	Set(ctx context.Context, unitID int32, lookup domain.DateWindow, ranges []domain.DateWindow) error
	Invalidate(ctx context.Context, unitID int32) error
}

var ErrCacheMiss = errors.New("cache miss")

type noopCache struct{}

// NewNoopCache returns a cache that never hits.
func NewNoopCache() AvailabilityCache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, unitID int32, lookup domain.DateWindow) ([]domain.DateWindow, error) {
	return nil, ErrCacheMiss
}

func (noopCache) Set(ctx context.Context, unitID int32, lookup domain.DateWindow, ranges []domain.DateWindow) error {
	return nil
}

func (noopCache) Invalidate(ctx context.Context, unitID int32) error {
	return nil
}
