package parser

import (
	"fmt"

	"vadimgribanov.com/tg-reminder/internal/models"
)

var weekdayTitles = []string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar"}

// DisplayTime renders when a reminder fires, e.g. "Her Pazartesi saat 09:00".
func DisplayTime(rec models.Recurrence, clock Clock) string {
	switch rec.Type {
	case models.RecurrenceTypeNone:
		if rec.DayOffset == 1 {
			return "Yarın saat " + clock.String()
		}
		return "Saat " + clock.String()
	case models.RecurrenceTypeMonthly:
		return fmt.Sprintf("Her ayın %s saat %s", dayLocative(dayOrFirst(rec.DayOfMonth)), clock)
	default:
		return DisplayRecurrence(rec) + " saat " + clock.String()
	}
}

// DisplayRecurrence renders the repeat summary. One-time reminders have none.
func DisplayRecurrence(rec models.Recurrence) string {
	switch rec.Type {
	case models.RecurrenceTypeDaily:
		return "Her gün"
	case models.RecurrenceTypeWeekly:
		return "Her " + weekdayTitles[weekdayOrMonday(rec.Weekday)-1]
	case models.RecurrenceTypeMonthly:
		return "Her ayın " + dayAccusative(dayOrFirst(rec.DayOfMonth))
	case models.RecurrenceTypeWeekdays:
		return "Hafta içi her gün"
	default:
		return ""
	}
}

// Possessive suffixes follow the vowel harmony of the spoken number:
// bir → 1'i, iki → 2'si, üç → 3'ü, on → 10'u, yirmi → 20'si.
var (
	digitSuffix = [...]string{"", "i", "si", "ü", "ü", "i", "sı", "si", "i", "u"}
	tensSuffix  = [...]string{"", "u", "si", "u"}
)

func dayAccusative(day int) string {
	suffix := digitSuffix[day%10]
	if day%10 == 0 {
		suffix = tensSuffix[day/10]
	}
	return fmt.Sprintf("%d'%s", day, suffix)
}

func dayLocative(day int) string {
	acc := dayAccusative(day)
	last := []rune(acc)
	switch last[len(last)-1] {
	case 'ı', 'u':
		return acc + "nda"
	default:
		return acc + "nde"
	}
}
