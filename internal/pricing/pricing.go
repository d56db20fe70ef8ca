// Package pricing computes deterministic price quotes for vehicle bookings.
// Quotes are pure functions of the vehicle's rate card and the date range:
// no clock, no store, no randomness. Calling ForRange twice with the same
// inputs always yields the same breakdown.
package pricing

import (
	"fmt"
	"time"

	"github.com/autoprime/backend/internal/domain"
)

// GST rate applied after the discount, in percent.
const gstPct = 18

// Quote is the price breakdown for one booking.
// Total = Subtotal - Discount + GST.
type Quote struct {
	Days     int
	Subtotal domain.Money
	Discount domain.Money
	GST      domain.Money
	Total    domain.Money
}

// ForRange quotes the vehicle for the inclusive range [start, end].
// Returns domain.ErrInvalidRange when end is before start.
//
// The subtotal walks each calendar day, adding the weekend surcharge on
// Saturdays and Sundays. Rentals of 7 days or more earn a 10% discount;
// the 30-day tier currently carries the same rate.
func ForRange(v domain.Vehicle, start, end time.Time) (Quote, error) {
	if end.Before(start) {
		return Quote{}, fmt.Errorf("pricing.ForRange: %w", domain.ErrInvalidRange)
	}

	var q Quote
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		q.Days++
		q.Subtotal += dailyRate(v, d)
	}

	switch {
	case q.Days >= 30:
		q.Discount = q.Subtotal.Percent(10)
	case q.Days >= 7:
		q.Discount = q.Subtotal.Percent(10)
	}

	afterDiscount := q.Subtotal - q.Discount
	q.GST = afterDiscount.Percent(gstPct)
	q.Total = afterDiscount + q.GST

	return q, nil
}

// dailyRate returns the rate for a single calendar day: the base rate plus
// the weekend surcharge on Saturday and Sunday.
func dailyRate(v domain.Vehicle, d time.Time) domain.Money {
	rate := v.DailyRate
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		rate += v.WeekendSurcharge
	}
	return rate
}
