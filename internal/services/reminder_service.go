package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vadimgribanov.com/tg-reminder/internal/metrics"
	"vadimgribanov.com/tg-reminder/internal/models"
	"vadimgribanov.com/tg-reminder/internal/parser"
	"vadimgribanov.com/tg-reminder/internal/repositories"
)

var ErrInvalidPosition = errors.New("invalid reminder number")

const defaultLabel = "Hatırlatma"

// DefaultRetryDelay is how long a reminder waits after a failed Telegram
// send before the sweep tries it again.
const DefaultRetryDelay = 5 * time.Minute

type ReminderRepo interface {
	CreateReminder(reminder models.Reminder) (int64, error)
	GetRemindersForChat(chatID int64) ([]models.Reminder, error)
	GetDueReminders(before time.Time, limit int) ([]models.Reminder, error)
	GetReminderByID(reminderID int64, chatID int64) (*models.Reminder, error)
	UpdateNextReminder(reminderID int64, next time.Time, firedAt time.Time) error
	PostponeReminder(reminderID int64, next time.Time) error
	DeleteReminder(reminderID int64, chatID int64) error
}

// Notifier delivers a text message to a Telegram chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Mailer delivers a reminder text by email.
type Mailer interface {
	SendReminder(ctx context.Context, to string, text string) error
}

type ReminderService struct {
	reminderRepo ReminderRepo
	notifier     Notifier
	mailer       Mailer
	batchSize    int
	retryDelay   time.Duration
	now          func() time.Time

	// sweeps are serialized so two triggers never deliver the same batch
	sweepMu sync.Mutex
}

// NewReminderService wires the service. mailer may be nil, in which case
// email addresses are stored but nothing is sent.
func NewReminderService(reminderRepo ReminderRepo, notifier Notifier, mailer Mailer, batchSize int) *ReminderService {
	return &ReminderService{
		reminderRepo: reminderRepo,
		notifier:     notifier,
		mailer:       mailer,
		batchSize:    batchSize,
		retryDelay:   DefaultRetryDelay,
		now:          time.Now,
	}
}

// CreateReminder parses text and stores the result for chatID.
func (s *ReminderService) CreateReminder(ctx context.Context, chatID int64, text string) (parser.ParsedReminder, error) {
	parsed, err := parser.Parse(text, s.now())
	if err != nil {
		metrics.ParseFailuresTotal.WithLabelValues(parseFailureReason(err)).Inc()
		return parser.ParsedReminder{}, err
	}

	id, err := s.reminderRepo.CreateReminder(parsed.Reminder(chatID))
	if err != nil {
		return parser.ParsedReminder{}, fmt.Errorf("failed to save reminder: %w", err)
	}

	metrics.RemindersCreatedTotal.WithLabelValues(metrics.RecurrenceLabel(string(parsed.Recurrence.Type))).Inc()
	slog.InfoContext(ctx, "Reminder created",
		"reminder_id", id,
		"chat_id", chatID,
		"recurrence", parsed.Recurrence.Type,
		"next_reminder", parsed.NextOccurrence,
	)
	return parsed, nil
}

func parseFailureReason(err error) string {
	switch {
	case errors.Is(err, parser.ErrNoMatch):
		return "no_time"
	case errors.Is(err, parser.ErrTimeOutOfRange):
		return "time_out_of_range"
	default:
		return "other"
	}
}

// ListReminders returns the chat's reminders in /list order, newest first.
func (s *ReminderService) ListReminders(ctx context.Context, chatID int64) ([]models.Reminder, error) {
	reminders, err := s.reminderRepo.GetRemindersForChat(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// DeleteReminder removes the reminder shown at the 1-based position of
// ListReminders and returns it.
func (s *ReminderService) DeleteReminder(ctx context.Context, chatID int64, position int) (models.Reminder, error) {
	reminders, err := s.ListReminders(ctx, chatID)
	if err != nil {
		return models.Reminder{}, err
	}
	if position < 1 || position > len(reminders) {
		return models.Reminder{}, ErrInvalidPosition
	}

	reminder := reminders[position-1]
	if err := s.reminderRepo.DeleteReminder(reminder.ID, chatID); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to delete reminder: %w", err)
	}

	slog.InfoContext(ctx, "Reminder deleted", "reminder_id", reminder.ID, "chat_id", chatID)
	return reminder, nil
}

// Sweep delivers one batch of due reminders and returns how many were due.
// A reminder whose Telegram message could not be sent is postponed by
// retryDelay. Reminders of chats the bot can no longer reach are deleted.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := s.reminderRepo.GetDueReminders(s.now(), s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch due reminders: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Found due reminders", "count", len(due))

	for _, reminder := range due {
		if err := ctx.Err(); err != nil {
			return len(due), err
		}
		s.fireReminder(ctx, reminder)
	}
	return len(due), nil
}

func (s *ReminderService) fireReminder(ctx context.Context, due models.Reminder) {
	// The row is read again: the user may have deleted it while earlier
	// reminders of the batch were being sent.
	reminder, err := s.reminderRepo.GetReminderByID(due.ID, due.ChatID)
	if errors.Is(err, repositories.ErrReminderNotFound) {
		slog.DebugContext(ctx, "Reminder deleted before delivery", "reminder_id", due.ID)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to reload reminder", "error", err, "reminder_id", due.ID)
		return
	}
	if !reminder.ShouldFire(s.now()) {
		slog.DebugContext(ctx, "Reminder is no longer due", "reminder_id", reminder.ID, "next_reminder", reminder.NextReminder)
		return
	}

	slog.InfoContext(ctx, "Firing reminder", "reminder_id", reminder.ID, "chat_id", reminder.ChatID)

	if err := s.notifier.Notify(ctx, reminder.ChatID, ReminderMessage(*reminder)); err != nil {
		s.handleSendFailure(ctx, *reminder, err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.ChannelTelegram, metrics.StatusSent).Inc()

	if reminder.Email != "" && s.mailer != nil {
		if err := s.mailer.SendReminder(ctx, reminder.Email, reminderLabel(*reminder)); err != nil {
			metrics.NotificationsTotal.WithLabelValues(metrics.ChannelEmail, metrics.StatusFailed).Inc()
			slog.ErrorContext(ctx, "Failed to send reminder email", "error", err, "reminder_id", reminder.ID)
		} else {
			metrics.NotificationsTotal.WithLabelValues(metrics.ChannelEmail, metrics.StatusSent).Inc()
		}
	}

	firedAt := s.now()
	if !reminder.IsRecurring() {
		if err := s.reminderRepo.DeleteReminder(reminder.ID, reminder.ChatID); err != nil {
			slog.ErrorContext(ctx, "Failed to delete fired reminder", "error", err, "reminder_id", reminder.ID)
		}
		return
	}

	clock := parser.Clock{Hour: reminder.Hour, Minute: reminder.Minute}
	next := parser.NextOccurrence(firedAt, reminder.Recurrence, clock)
	if err := s.reminderRepo.UpdateNextReminder(reminder.ID, next, firedAt); err != nil {
		slog.ErrorContext(ctx, "Failed to schedule next occurrence", "error", err, "reminder_id", reminder.ID)
		return
	}
	slog.InfoContext(ctx, "Scheduled next occurrence", "reminder_id", reminder.ID, "next_reminder", next)
}

func (s *ReminderService) handleSendFailure(ctx context.Context, reminder models.Reminder, sendErr error) {
	if IsUndeliverable(sendErr) {
		metrics.NotificationsTotal.WithLabelValues(metrics.ChannelTelegram, metrics.StatusDropped).Inc()
		slog.WarnContext(ctx, "Chat is unreachable, dropping reminder",
			"error", sendErr, "reminder_id", reminder.ID, "chat_id", reminder.ChatID)
		if err := s.reminderRepo.DeleteReminder(reminder.ID, reminder.ChatID); err != nil {
			slog.ErrorContext(ctx, "Failed to delete undeliverable reminder", "error", err, "reminder_id", reminder.ID)
		}
		return
	}

	metrics.NotificationsTotal.WithLabelValues(metrics.ChannelTelegram, metrics.StatusFailed).Inc()
	retryAt := s.now().Add(s.retryDelay)
	slog.ErrorContext(ctx, "Failed to send reminder", "error", sendErr, "reminder_id", reminder.ID, "retry_at", retryAt)
	if err := s.reminderRepo.PostponeReminder(reminder.ID, retryAt); err != nil {
		slog.ErrorContext(ctx, "Failed to postpone reminder", "error", err, "reminder_id", reminder.ID)
	}
}

// ReminderMessage is the chat text sent when a reminder fires.
func ReminderMessage(reminder models.Reminder) string {
	kind := "tek seferlik"
	if reminder.IsRecurring() {
		kind = "tekrarlı"
	}
	return fmt.Sprintf("⏰ Hatırlatma!\n\n%s\n\nBu hatırlatma %s olarak ayarlandı.", reminderLabel(reminder), kind)
}

// reminderLabel is the text delivered for a reminder. Texts that were only
// a time phrase ("yarın 10:00") are stored empty.
func reminderLabel(reminder models.Reminder) string {
	if reminder.Text == "" {
		return defaultLabel
	}
	return reminder.Text
}
