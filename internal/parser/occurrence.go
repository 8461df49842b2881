package parser

import (
	"time"

	"vadimgribanov.com/tg-reminder/internal/models"
)

// NextOccurrence returns the first moment strictly after now at which a
// reminder with the given recurrence and clock fires. It is deterministic:
// passing a previous result back as now yields the following occurrence.
//
// Monthly anchors past the end of a short month are clamped to the month's
// last day; the next month goes back to the anchor day.
func NextOccurrence(now time.Time, rec models.Recurrence, clock Clock) time.Time {
	switch rec.Type {
	case models.RecurrenceTypeDaily:
		return rollDays(at(now, clock), now, 1)
	case models.RecurrenceTypeWeekly:
		return nextWeekly(now, weekdayOrMonday(rec.Weekday), clock)
	case models.RecurrenceTypeMonthly:
		return nextMonthly(now, dayOrFirst(rec.DayOfMonth), clock)
	case models.RecurrenceTypeWeekdays:
		next := rollDays(at(now, clock), now, 1)
		for isWeekend(next) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	default:
		return rollDays(at(now.AddDate(0, 0, rec.DayOffset), clock), now, 1)
	}
}

// at returns clock on the calendar day of t, in t's location.
func at(t time.Time, clock Clock) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, clock.Hour, clock.Minute, 0, 0, t.Location())
}

func rollDays(candidate, now time.Time, step int) time.Time {
	for !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, step)
	}
	return candidate
}

func nextWeekly(now time.Time, weekday int, clock Clock) time.Time {
	monday := now.AddDate(0, 0, 1-isoWeekday(now))
	candidate := at(monday.AddDate(0, 0, weekday-1), clock)
	return rollDays(candidate, now, 7)
}

func nextMonthly(now time.Time, day int, clock Clock) time.Time {
	year, month, _ := now.Date()
	for i := 0; ; i++ {
		candidate := monthAnchor(year, month+time.Month(i), day, clock, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}
}

func monthAnchor(year int, month time.Month, day int, clock Clock, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, clock.Hour, clock.Minute, 0, 0, loc)
}

// daysIn accepts months past December; time.Date normalizes them.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func weekdayOrMonday(weekday int) int {
	if weekday < 1 || weekday > 7 {
		return 1
	}
	return weekday
}

func dayOrFirst(day int) int {
	if day < 1 || day > 31 {
		return 1
	}
	return day
}
