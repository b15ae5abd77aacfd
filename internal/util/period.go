package util

import (
	"fmt"
	"time"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// CalculatePeriod maps a calendar date onto a billing-period label in
// "YYYY-MM" form. Days before periodStartDay belong to the previous
// month's period, so with periodStartDay=25 the date 2024-01-10 falls
// into period "2023-12".
func CalculatePeriod(date time.Time, periodStartDay int) string {
	year := date.Year()
	month := int(date.Month())

	if date.Day() < periodStartDay {
		year, month = PreviousMonth(year, month)
	}

	return fmt.Sprintf("%04d-%02d", year, month)
}

// PeriodForNow returns the period label the current date falls into
func PeriodForNow(periodStartDay int) string {
	return CalculatePeriod(time.Now().UTC(), periodStartDay)
}
