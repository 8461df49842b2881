package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens the sqlite file at dbPath, creating its directory. Writers
// wait on a busy database instead of failing with SQLITE_BUSY.
func NewDB(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", dbPath, err)
	}

	slog.Info("Database opened", "path", dbPath)
	return &DB{conn}, nil
}

func (db *DB) Migrate() error {
	migrations := []string{
		createUsersTable,
		createRemindersTable,
		createRemindersChatIndex,
		createRemindersNextIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("Database schema is up to date", "migrations", len(migrations))
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT,
	username TEXT,
	chat_id INTEGER NOT NULL,
	last_interaction INTEGER NOT NULL,
	active BOOLEAN DEFAULT true,
	created_at INTEGER DEFAULT (strftime('%s', 'now')),
	updated_at INTEGER DEFAULT (strftime('%s', 'now'))
);`

// Timestamps are unix seconds; next_reminder is the only column the sweep
// filters on.
const createRemindersTable = `
CREATE TABLE IF NOT EXISTS reminders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id INTEGER NOT NULL,
	text TEXT NOT NULL,
	hour INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
	minute INTEGER NOT NULL CHECK (minute BETWEEN 0 AND 59),
	recurrence_type TEXT NOT NULL DEFAULT ''
		CHECK (recurrence_type IN ('', 'daily', 'weekly', 'monthly', 'weekdays')),
	weekday INTEGER NOT NULL DEFAULT 0,
	day_of_month INTEGER NOT NULL DEFAULT 0,
	email TEXT NOT NULL DEFAULT '',
	next_reminder INTEGER NOT NULL,
	last_fired_at INTEGER,
	created_at INTEGER DEFAULT (strftime('%s', 'now')),
	updated_at INTEGER DEFAULT (strftime('%s', 'now'))
);`

const createRemindersChatIndex = `CREATE INDEX IF NOT EXISTS idx_reminders_chat_id ON reminders(chat_id);`

const createRemindersNextIndex = `CREATE INDEX IF NOT EXISTS idx_reminders_next_reminder ON reminders(next_reminder);`
