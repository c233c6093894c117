package pricing

import (
	"testing"
	"time"

	"wardrobe-rental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29}, // leap year
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2000, time.February, 29}, // divisible by 400
		{1900, time.February, 28}, // divisible by 100 but not 400
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestCalculateDateDifference(t *testing.T) {
	t.Run("Same day", func(t *testing.T) {
		diff, err := CalculateDateDifference(date(2024, 1, 15), date(2024, 1, 15))
		assert.NoError(t, err)
		assert.Equal(t, 0, diff.Months)
		assert.Equal(t, 1, diff.Days)
	})

	t.Run("Across month boundary", func(t *testing.T) {
		diff, err := CalculateDateDifference(date(2024, 1, 31), date(2024, 2, 1))
		assert.NoError(t, err)
		assert.Equal(t, 0, diff.Months)
		assert.Equal(t, 2, diff.Days)
	})

	t.Run("Exactly one month", func(t *testing.T) {
		diff, err := CalculateDateDifference(date(2024, 1, 15), date(2024, 2, 14))
		assert.NoError(t, err)
		assert.Equal(t, 1, diff.Months)
		assert.Equal(t, 0, diff.Days)
	})

	t.Run("Across year", func(t *testing.T) {
		diff, err := CalculateDateDifference(date(2023, 12, 20), date(2024, 2, 25))
		assert.NoError(t, err)
		assert.Equal(t, 2, diff.Months)
		assert.Equal(t, 6, diff.Days)
	})

	t.Run("End before start", func(t *testing.T) {
		_, err := CalculateDateDifference(date(2024, 2, 1), date(2024, 1, 1))
		assert.Error(t, err)
	})
}

func TestCalculateRentalCost(t *testing.T) {
	unit := &domain.RentalUnit{
		Kind:              domain.UnitKindApparel,
		DailyPriceCents:   1500,
		WeeklyPriceCents:  8000,
		MonthlyPriceCents: 25000,
	}

	t.Run("Four day rental", func(t *testing.T) {
		w := domain.NewDateWindow(date(2026, 3, 2), date(2026, 3, 5), domain.GrainDay)
		got, err := CalculateRentalCost(unit, w)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), got.TotalCost)
	})

	t.Run("Ten days is a week and three days", func(t *testing.T) {
		w := domain.NewDateWindow(date(2026, 3, 2), date(2026, 3, 11), domain.GrainDay)
		got, err := CalculateRentalCost(unit, w)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Weeks)
		assert.Equal(t, 3, got.Days)
		assert.Equal(t, int64(8000+3*1500), got.TotalCost)
	})

	t.Run("Month plus days", func(t *testing.T) {
		w := domain.NewDateWindow(date(2026, 3, 1), date(2026, 4, 2), domain.GrainDay)
		got, err := CalculateRentalCost(unit, w)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Months)
		assert.Equal(t, 2, got.Days)
		assert.Equal(t, int64(25000+2*1500), got.TotalCost)
	})

	t.Run("Stylist priced per slot", func(t *testing.T) {
		stylist := &domain.RentalUnit{Kind: domain.UnitKindStylist, SlotPriceCents: 4500}
		start := date(2026, 3, 2).Add(10 * time.Hour)
		w := domain.NewDateWindow(start, start.Add(2*time.Hour), domain.GrainHour)
		got, err := CalculateRentalCost(stylist, w)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Slots)
		assert.Equal(t, int64(13500), got.TotalCost)
	})

	t.Run("Empty window", func(t *testing.T) {
		_, err := CalculateRentalCost(unit, domain.DateWindow{})
		assert.ErrorIs(t, err, domain.ErrInvalidWindow)
	})
}
