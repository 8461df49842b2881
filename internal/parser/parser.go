// Package parser turns free-form Turkish reminder messages such as
// "Her pazartesi saat 09:00'da spor" into structured reminders and computes
// when they fire next. Everything here is pure; the current time is always
// passed in by the caller.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"vadimgribanov.com/tg-reminder/internal/models"
)

var (
	ErrNoMatch        = errors.New("no time of day found")
	ErrTimeOutOfRange = errors.New("time of day out of range")
)

type ParsedReminder struct {
	Text              string
	Clock             Clock
	Recurrence        models.Recurrence
	NextOccurrence    time.Time
	Email             string
	DisplayTime       string
	DisplayRecurrence string
}

// Reminder converts the parse result into a record owned by chatID.
func (p ParsedReminder) Reminder(chatID int64) models.Reminder {
	return models.Reminder{
		ChatID:       chatID,
		Text:         p.Text,
		Hour:         p.Clock.Hour,
		Minute:       p.Clock.Minute,
		Recurrence:   p.Recurrence,
		Email:        p.Email,
		NextReminder: p.NextOccurrence,
	}
}

// ExtractEmail splits an "address: text" message. Without a valid address
// prefix the whole text is returned unchanged.
func ExtractEmail(text string) (email string, rest string) {
	match := emailPattern.FindStringSubmatch(text)
	if match == nil {
		return "", text
	}
	return match[1], match[2]
}

// Parse reads a reminder out of raw. It fails with ErrNoMatch when raw
// carries no HH:MM token and with ErrTimeOutOfRange when that token is not
// a valid clock time. An empty label is not an error.
func Parse(raw string, now time.Time) (ParsedReminder, error) {
	email, body := ExtractEmail(strings.TrimSpace(raw))

	kind := Classify(body)
	clock, ok := ExtractClock(body)
	if !ok {
		return ParsedReminder{}, ErrNoMatch
	}
	if !clock.Valid() {
		return ParsedReminder{}, fmt.Errorf("%w: %s", ErrTimeOutOfRange, clock)
	}

	rec := models.Recurrence{Type: kind}
	// Anchors are stripped before the keywords so that "her ayın 15'inde"
	// goes away as a whole and only the weekday that was used is removed.
	var patterns []*regexp.Regexp
	switch kind {
	case models.RecurrenceTypeWeekly:
		rec.Weekday = ExtractWeekday(body)
		patterns = append(patterns, weekdayPatterns[rec.Weekday-1])
	case models.RecurrenceTypeMonthly:
		rec.DayOfMonth = ExtractDayOfMonth(body)
		patterns = append(patterns, dayOfMonthToken)
	case models.RecurrenceTypeNone:
		if IsTomorrow(body) {
			rec.DayOffset = 1
		}
	}
	patterns = append(patterns, stripPatterns(kind)...)
	patterns = append(patterns, timePhrasePattern)

	return ParsedReminder{
		Text:              Normalize(body, patterns...),
		Clock:             clock,
		Recurrence:        rec,
		NextOccurrence:    NextOccurrence(now, rec, clock),
		Email:             email,
		DisplayTime:       DisplayTime(rec, clock),
		DisplayRecurrence: DisplayRecurrence(rec),
	}, nil
}
