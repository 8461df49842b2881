package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"vadimgribanov.com/tg-reminder/internal/models"
)

var allRecurrences = []models.Recurrence{
	{Type: models.RecurrenceTypeNone},
	{Type: models.RecurrenceTypeNone, DayOffset: 1},
	{Type: models.RecurrenceTypeDaily},
	{Type: models.RecurrenceTypeWeekly, Weekday: 1},
	{Type: models.RecurrenceTypeWeekly, Weekday: 7},
	{Type: models.RecurrenceTypeMonthly, DayOfMonth: 1},
	{Type: models.RecurrenceTypeMonthly, DayOfMonth: 31},
	{Type: models.RecurrenceTypeWeekdays},
}

// sampleNows walks two weeks in uneven steps so every weekday and many
// times of day are covered, including exact minute boundaries.
func sampleNows() []time.Time {
	start := time.Date(2026, time.December, 24, 0, 0, 0, 0, istanbul)
	var nows []time.Time
	for t := start; t.Before(start.AddDate(0, 0, 14)); t = t.Add(97 * time.Minute) {
		nows = append(nows, t)
	}
	return nows
}

func TestNextOccurrence_AlwaysAfterNow(t *testing.T) {
	clocks := []Clock{{0, 0}, {9, 0}, {12, 30}, {23, 59}}
	for _, now := range sampleNows() {
		for _, rec := range allRecurrences {
			for _, clock := range clocks {
				next := NextOccurrence(now, rec, clock)
				assert.True(t, next.After(now), "%v %v at %s: %s is not after %s", rec.Type, rec, clock, next, now)
				assert.Equal(t, clock.Hour, next.Hour())
				assert.Equal(t, clock.Minute, next.Minute())
				assert.Zero(t, next.Second())
			}
		}
	}
}

func TestNextOccurrence_EqualToNowRollsForward(t *testing.T) {
	now := monday(10, 0)
	next := NextOccurrence(now, models.Recurrence{}, Clock{Hour: 10})
	assert.Equal(t, time.Date(2026, time.October, 20, 10, 0, 0, 0, istanbul), next)
}

func TestNextOccurrence_TomorrowIgnoresLaterToday(t *testing.T) {
	now := monday(8, 0)
	next := NextOccurrence(now, models.Recurrence{DayOffset: 1}, Clock{Hour: 10})
	assert.Equal(t, time.Date(2026, time.October, 20, 10, 0, 0, 0, istanbul), next)
}

func TestNextOccurrence_RepeatedFiringAdvancesOnePeriod(t *testing.T) {
	clock := Clock{Hour: 7, Minute: 45}
	tests := []struct {
		rec     models.Recurrence
		advance func(time.Time) time.Time
	}{
		{models.Recurrence{Type: models.RecurrenceTypeDaily}, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }},
		{models.Recurrence{Type: models.RecurrenceTypeWeekly, Weekday: 3}, func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }},
		{models.Recurrence{Type: models.RecurrenceTypeMonthly, DayOfMonth: 15}, func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	}

	for _, tt := range tests {
		t.Run(string(tt.rec.Type), func(t *testing.T) {
			for _, now := range sampleNows() {
				first := NextOccurrence(now, tt.rec, clock)
				second := NextOccurrence(first, tt.rec, clock)
				assert.Equal(t, tt.advance(first), second, "from %s", now)
				assert.Equal(t, first, NextOccurrence(now, tt.rec, clock))
			}
		})
	}
}

func TestNextOccurrence_WeekdaysSkipWeekend(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceTypeWeekdays}
	for _, now := range sampleNows() {
		next := NextOccurrence(now, rec, Clock{Hour: 9})
		assert.NotEqual(t, time.Saturday, next.Weekday(), "from %s", now)
		assert.NotEqual(t, time.Sunday, next.Weekday(), "from %s", now)
		assert.LessOrEqual(t, next.Sub(now), 3*24*time.Hour)
	}

	friday := time.Date(2026, time.October, 23, 9, 0, 0, 0, istanbul)
	assert.Equal(t, time.Date(2026, time.October, 26, 9, 0, 0, 0, istanbul), NextOccurrence(friday, rec, Clock{Hour: 9}))
}

func TestNextOccurrence_Weekly(t *testing.T) {
	now := monday(9, 30)
	sunday := NextOccurrence(now, models.Recurrence{Type: models.RecurrenceTypeWeekly, Weekday: 7}, Clock{Hour: 9})
	assert.Equal(t, time.Date(2026, time.October, 25, 9, 0, 0, 0, istanbul), sunday)

	laterToday := NextOccurrence(now, models.Recurrence{Type: models.RecurrenceTypeWeekly, Weekday: 1}, Clock{Hour: 18})
	assert.Equal(t, monday(18, 0), laterToday)

	// an unset weekday behaves like Monday
	unset := NextOccurrence(now, models.Recurrence{Type: models.RecurrenceTypeWeekly}, Clock{Hour: 18})
	assert.Equal(t, monday(18, 0), unset)
}

func TestNextOccurrence_MonthlyClampsShortMonths(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceTypeMonthly, DayOfMonth: 31}
	clock := Clock{Hour: 8}

	feb := NextOccurrence(time.Date(2026, time.February, 10, 12, 0, 0, 0, istanbul), rec, clock)
	assert.Equal(t, time.Date(2026, time.February, 28, 8, 0, 0, 0, istanbul), feb)

	mar := NextOccurrence(feb, rec, clock)
	assert.Equal(t, time.Date(2026, time.March, 31, 8, 0, 0, 0, istanbul), mar)

	apr := NextOccurrence(mar, rec, clock)
	assert.Equal(t, time.Date(2026, time.April, 30, 8, 0, 0, 0, istanbul), apr)

	leap := NextOccurrence(time.Date(2028, time.February, 1, 0, 0, 0, 0, istanbul), rec, clock)
	assert.Equal(t, time.Date(2028, time.February, 29, 8, 0, 0, 0, istanbul), leap)
}

func TestNextOccurrence_MonthlyCrossesYear(t *testing.T) {
	rec := models.Recurrence{Type: models.RecurrenceTypeMonthly, DayOfMonth: 5}
	now := time.Date(2026, time.December, 5, 9, 0, 0, 0, istanbul)
	next := NextOccurrence(now, rec, Clock{Hour: 9})
	assert.Equal(t, time.Date(2027, time.January, 5, 9, 0, 0, 0, istanbul), next)
}
