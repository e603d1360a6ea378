// Package pricing computes rental duration and price quotes.
package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// ServiceFeeRate is applied on top of the rental subtotal.
var ServiceFeeRate = decimal.RequireFromString("0.10")

var ErrNegativePrice = errors.New("price per day must not be negative")

// Quote is the full price breakdown for a date range. All amounts keep full
// decimal precision; rounding for display is left to callers.
type Quote struct {
	Days        int
	PricePerDay decimal.Decimal
	Subtotal    decimal.Decimal
	ServiceFee  decimal.Decimal
	Total       decimal.Decimal
}

// ParseDate converts a yyyy-mm-dd string into a UTC midnight time.
func ParseDate(dateStr string) (time.Time, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > DaysInMonth(year, month) {
		return time.Time{}, fmt.Errorf("day must be between 1 and %d", DaysInMonth(year, month))
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	return 31
}

// Days returns the whole calendar-day difference between start and end,
// ignoring time of day. Same-day and inverted ranges clamp to 1.
func Days(start, end time.Time) int {
	s := truncateToDate(start)
	e := truncateToDate(end)
	days := int(e.Sub(s).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Calculate builds a quote for the given range and daily rate.
func Calculate(start, end time.Time, pricePerDay decimal.Decimal) (Quote, error) {
	if pricePerDay.IsNegative() {
		return Quote{}, ErrNegativePrice
	}

	days := Days(start, end)
	subtotal := pricePerDay.Mul(decimal.NewFromInt(int64(days)))
	fee := subtotal.Mul(ServiceFeeRate)

	return Quote{
		Days:        days,
		PricePerDay: pricePerDay,
		Subtotal:    subtotal,
		ServiceFee:  fee,
		Total:       subtotal.Add(fee),
	}, nil
}

// CalculateFromStrings is Calculate for yyyy-mm-dd inputs.
func CalculateFromStrings(startDate, endDate string, pricePerDay decimal.Decimal) (Quote, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid end date: %w", err)
	}
	return Calculate(start, end, pricePerDay)
}

// RentalDays is Days for stored yyyy-mm-dd strings. Unparseable input counts
// as a single day.
func RentalDays(startDate, endDate string) int {
	start, err := ParseDate(startDate)
	if err != nil {
		return 1
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 1
	}
	return Days(start, end)
}
