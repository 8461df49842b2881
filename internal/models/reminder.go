package models

import "time"

type RecurrenceType string

const (
	RecurrenceTypeNone     RecurrenceType = ""
	RecurrenceTypeDaily    RecurrenceType = "daily"
	RecurrenceTypeWeekly   RecurrenceType = "weekly"
	RecurrenceTypeMonthly  RecurrenceType = "monthly"
	RecurrenceTypeWeekdays RecurrenceType = "weekdays"
)

// Recurrence describes how a reminder repeats.
// Weekday is ISO numbered (1=Monday..7=Sunday) and only used by weekly
// reminders, DayOfMonth only by monthly ones. DayOffset shifts the first
// candidate day of one-time reminders ("yarın" = 1).
type Recurrence struct {
	Type       RecurrenceType
	Weekday    int
	DayOfMonth int
	DayOffset  int
}

func (r Recurrence) IsRecurring() bool {
	return r.Type != RecurrenceTypeNone
}

type Reminder struct {
	ID           int64
	ChatID       int64
	Text         string
	Hour         int
	Minute       int
	Recurrence   Recurrence
	Email        string
	NextReminder time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastFiredAt  *time.Time
}

// ShouldFire checks if reminder is due
func (r *Reminder) ShouldFire(now time.Time) bool {
	return !now.Before(r.NextReminder)
}

func (r *Reminder) IsRecurring() bool {
	return r.Recurrence.IsRecurring()
}
