package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vadimgribanov.com/tg-reminder/internal/database"
	"vadimgribanov.com/tg-reminder/internal/models"
)

var ErrReminderNotFound = errors.New("reminder not found")

const reminderColumns = `
	id, chat_id, text, hour, minute,
	recurrence_type, weekday, day_of_month, email,
	next_reminder, last_fired_at, created_at, updated_at`

type ReminderRepo struct {
	db *database.DB
}

func NewReminderRepo(db *database.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// CreateReminder inserts a new reminder and returns its ID
func (r *ReminderRepo) CreateReminder(reminder models.Reminder) (int64, error) {
	query := `
		INSERT INTO reminders (
			chat_id, text, hour, minute,
			recurrence_type, weekday, day_of_month, email, next_reminder
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		reminder.ChatID,
		reminder.Text,
		reminder.Hour,
		reminder.Minute,
		string(reminder.Recurrence.Type),
		reminder.Recurrence.Weekday,
		reminder.Recurrence.DayOfMonth,
		reminder.Email,
		reminder.NextReminder.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get reminder ID: %w", err)
	}

	return id, nil
}

// GetRemindersForChat lists a chat's reminders, newest first. The order is
// the numbering /delete refers to.
func (r *ReminderRepo) GetRemindersForChat(chatID int64) ([]models.Reminder, error) {
	query := `SELECT` + reminderColumns + `
		FROM reminders
		WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	return r.scanReminders(rows)
}

// GetDueReminders fetches at most limit reminders whose next_reminder is not
// after before, oldest first.
func (r *ReminderRepo) GetDueReminders(before time.Time, limit int) ([]models.Reminder, error) {
	query := `SELECT` + reminderColumns + `
		FROM reminders
		WHERE next_reminder <= ?
		ORDER BY next_reminder ASC, id ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, before.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return r.scanReminders(rows)
}

// UpdateNextReminder moves a recurring reminder to its next occurrence and
// records when it last fired
func (r *ReminderRepo) UpdateNextReminder(reminderID int64, next time.Time, firedAt time.Time) error {
	query := `
		UPDATE reminders
		SET next_reminder = ?,
		    last_fired_at = ?,
		    updated_at = strftime('%s', 'now')
		WHERE id = ?
	`

	result, err := r.db.Exec(query, next.Unix(), firedAt.Unix(), reminderID)
	if err != nil {
		return fmt.Errorf("failed to update next reminder: %w", err)
	}

	return requireAffected(result)
}

// PostponeReminder moves next_reminder without recording a delivery
func (r *ReminderRepo) PostponeReminder(reminderID int64, next time.Time) error {
	query := `
		UPDATE reminders
		SET next_reminder = ?,
		    updated_at = strftime('%s', 'now')
		WHERE id = ?
	`

	result, err := r.db.Exec(query, next.Unix(), reminderID)
	if err != nil {
		return fmt.Errorf("failed to postpone reminder: %w", err)
	}

	return requireAffected(result)
}

// DeleteReminder removes a reminder owned by chatID
func (r *ReminderRepo) DeleteReminder(reminderID int64, chatID int64) error {
	result, err := r.db.Exec(`DELETE FROM reminders WHERE id = ? AND chat_id = ?`, reminderID, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	return requireAffected(result)
}

func (r *ReminderRepo) GetReminderByID(reminderID int64, chatID int64) (*models.Reminder, error) {
	query := `SELECT` + reminderColumns + `
		FROM reminders
		WHERE id = ? AND chat_id = ?
	`

	reminder, err := scanReminder(r.db.QueryRow(query, reminderID, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return &reminder, nil
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func (r *ReminderRepo) scanReminders(rows *sql.Rows) ([]models.Reminder, error) {
	var reminders []models.Reminder

	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(row scanner) (models.Reminder, error) {
	var reminder models.Reminder
	var recurrenceType string
	var lastFiredAt sql.NullInt64
	var nextReminder, createdAt, updatedAt int64

	err := row.Scan(
		&reminder.ID,
		&reminder.ChatID,
		&reminder.Text,
		&reminder.Hour,
		&reminder.Minute,
		&recurrenceType,
		&reminder.Recurrence.Weekday,
		&reminder.Recurrence.DayOfMonth,
		&reminder.Email,
		&nextReminder,
		&lastFiredAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.Reminder{}, err
	}

	reminder.Recurrence.Type = models.RecurrenceType(recurrenceType)
	reminder.NextReminder = time.Unix(nextReminder, 0)
	reminder.CreatedAt = time.Unix(createdAt, 0)
	reminder.UpdatedAt = time.Unix(updatedAt, 0)

	if lastFiredAt.Valid {
		t := time.Unix(lastFiredAt.Int64, 0)
		reminder.LastFiredAt = &t
	}

	return reminder, nil
}
