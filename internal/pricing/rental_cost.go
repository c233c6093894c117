package pricing

import (
	"fmt"
	"time"

	"wardrobe-rental-backend/internal/domain"
)

// DateDifference represents the difference between two dates
type DateDifference struct {
	Months int
	Days   int
}

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	Months     int   `json:"months"`
	Weeks      int   `json:"weeks"`
	Days       int   `json:"days"`
	Slots      int   `json:"slots"`
	MonthsCost int64 `json:"months_cost"`
	WeeksCost  int64 `json:"weeks_cost"`
	DaysCost   int64 `json:"days_cost"`
	SlotsCost  int64 `json:"slots_cost"`
	TotalCost  int64 `json:"total_cost"`
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CalculateDateDifference computes the difference between two dates
// Returns (months, days) where both start and end dates are included
func CalculateDateDifference(start, end time.Time) (DateDifference, error) {
	start, end = start.UTC(), end.UTC()
	if end.Before(domain.GrainDay.Truncate(start)) {
		return DateDifference{}, fmt.Errorf("end date must be >= start date")
	}

	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	days := end.Day() - start.Day() + 1 // +1 to include both ends

	// If days < 0, borrow from months
	if days < 0 {
		months--
		prev := end.AddDate(0, 0, -end.Day())
		days += DaysInMonth(prev.Year(), prev.Month())
	}

	// If months are negative, borrow from years
	if months < 0 {
		years--
		months += 12
	}

	return DateDifference{Months: months + 12*years, Days: days}, nil
}

// CalculateRentalCost prices a requested window for a unit. Apparel uses tiered
// pricing (months + weeks + days); stylists are priced per hour slot.
func CalculateRentalCost(unit *domain.RentalUnit, window domain.DateWindow) (RentalCostBreakdown, error) {
	if !window.Defined() || window.From.After(window.Till) {
		return RentalCostBreakdown{}, domain.NewError(domain.ErrorKindInvalidWindow, "cannot price an empty window")
	}

	if unit.Kind == domain.UnitKindStylist {
		slots := window.Len()
		cost := int64(slots) * unit.SlotPriceCents
		return RentalCostBreakdown{Slots: slots, SlotsCost: cost, TotalCost: cost}, nil
	}

	diff, err := CalculateDateDifference(window.From, window.Till)
	if err != nil {
		return RentalCostBreakdown{}, err
	}
	return dayUnitCost(unit, diff), nil
}

// dayUnitCost breaks remaining days into weeks and days on top of whole months
func dayUnitCost(unit *domain.RentalUnit, diff DateDifference) RentalCostBreakdown {
	const daysPerWeek = 7

	weeks := diff.Days / daysPerWeek
	days := diff.Days % daysPerWeek

	monthsCost := int64(diff.Months) * unit.MonthlyPriceCents
	weeksCost := int64(weeks) * unit.WeeklyPriceCents
	daysCost := int64(days) * unit.DailyPriceCents

	return RentalCostBreakdown{
		Months:     diff.Months,
		Weeks:      weeks,
		Days:       days,
		MonthsCost: monthsCost,
		WeeksCost:  weeksCost,
		DaysCost:   daysCost,
		TotalCost:  monthsCost + weeksCost + daysCost,
	}
}
