package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"vadimgribanov.com/tg-reminder/internal/models"
)

type recurrenceRule struct {
	kind    models.RecurrenceType
	matches func(lowered string) bool
	strip   []*regexp.Regexp
}

// recurrenceRules is evaluated in order and the first match wins: a text
// mentioning both "her gün" and "her ay" is daily.
var recurrenceRules = []recurrenceRule{
	{
		kind:    models.RecurrenceTypeDaily,
		matches: containsAny(dailyPattern),
		strip:   []*regexp.Regexp{dailyPattern},
	},
	{
		kind:    models.RecurrenceTypeWeekly,
		matches: containsAny(weeklyPattern, weeklyDayPhrase),
		strip:   []*regexp.Regexp{weeklyPattern},
	},
	{
		kind:    models.RecurrenceTypeMonthly,
		matches: containsAny(monthlyPattern),
		strip:   []*regexp.Regexp{monthlyPattern},
	},
	{
		kind:    models.RecurrenceTypeWeekdays,
		matches: containsAny(weekdaysPattern),
		strip:   []*regexp.Regexp{weekdaysPattern},
	},
}

var oneTimeStrip = []*regexp.Regexp{dayWordPattern}

func containsAny(patterns ...*regexp.Regexp) func(string) bool {
	return func(s string) bool {
		for _, p := range patterns {
			if p.MatchString(s) {
				return true
			}
		}
		return false
	}
}

func lower(text string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, text)
}

// Classify picks the recurrence kind of text. Texts without a recurrence
// keyword are one-time reminders.
func Classify(text string) models.RecurrenceType {
	lowered := lower(text)
	for _, rule := range recurrenceRules {
		if rule.matches(lowered) {
			return rule.kind
		}
	}
	return models.RecurrenceTypeNone
}

func stripPatterns(kind models.RecurrenceType) []*regexp.Regexp {
	for _, rule := range recurrenceRules {
		if rule.kind == kind {
			return rule.strip
		}
	}
	return oneTimeStrip
}

// ExtractWeekday returns the ISO weekday (1=Monday..7=Sunday) of the first
// weekday name in list order, or Monday when none is mentioned.
func ExtractWeekday(text string) int {
	lowered := lower(text)
	for i, p := range weekdayPatterns {
		if p.MatchString(lowered) {
			return i + 1
		}
	}
	return 1
}

// ExtractDayOfMonth reads the day from "ayın 15'inde" style tokens.
// Missing or impossible days fall back to the 1st.
func ExtractDayOfMonth(text string) int {
	match := dayOfMonthToken.FindStringSubmatch(lower(text))
	if match == nil {
		return 1
	}
	day, err := strconv.Atoi(match[2])
	if err != nil || day < 1 || day > 31 {
		return 1
	}
	return day
}

// IsTomorrow reports whether a one-time text is anchored on "yarın".
func IsTomorrow(text string) bool {
	return tomorrowPattern.MatchString(lower(text))
}
