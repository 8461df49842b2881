package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reminder_bot"

// Label values for NotificationsTotal.
const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"

	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
)

var (
	RemindersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_created_total",
			Help:      "Reminders stored, by recurrence kind.",
		},
		[]string{"recurrence"},
	)

	ParseFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Messages that could not be turned into a reminder.",
		},
		[]string{"reason"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Reminder deliveries attempted, by channel and outcome.",
		},
		[]string{"channel", "status"},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time spent delivering one batch of due reminders.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// RecurrenceLabel maps the empty one-time kind to a readable label value.
func RecurrenceLabel(kind string) string {
	if kind == "" {
		return "none"
	}
	return kind
}
