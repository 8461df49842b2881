package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"
	"vadimgribanov.com/tg-reminder/internal/database"
	"vadimgribanov.com/tg-reminder/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	db             *database.DB
	allowedUserIds []int64
}

// NewUserRepo stores users in db. With an empty allow-list every new user
// is registered active.
func NewUserRepo(db *database.DB, allowedUserIds []int64) *UserRepo {
	return &UserRepo{db: db, allowedUserIds: allowedUserIds}
}

func (repo *UserRepo) isAllowed(userId int64) bool {
	return len(repo.allowedUserIds) == 0 || slices.Contains(repo.allowedUserIds, userId)
}

func (repo *UserRepo) Register(userId int64, firstName string, lastName string, username string, chatId int64) (models.User, error) {
	newUser := models.User{
		Id:              userId,
		FirstName:       firstName,
		LastName:        lastName,
		Username:        username,
		ChatId:          chatId,
		LastInteraction: time.Now().Unix(),
		Active:          repo.isAllowed(userId),
	}

	query := `
		INSERT INTO users (id, first_name, last_name, username, chat_id, last_interaction, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`
	_, err := repo.db.Exec(query,
		newUser.Id,
		newUser.FirstName,
		newUser.LastName,
		newUser.Username,
		newUser.ChatId,
		newUser.LastInteraction,
		newUser.Active,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to register user: %w", err)
	}
	return newUser, nil
}

func (repo *UserRepo) CheckIfUserExists(userId int64) (bool, error) {
	var exists bool
	err := repo.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, userId).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (repo *UserRepo) GetUser(userId int64) (models.User, error) {
	query := `
		SELECT id, first_name, COALESCE(last_name, ''), COALESCE(username, ''),
		       chat_id, last_interaction, active
		FROM users
		WHERE id = ?
	`

	var user models.User
	err := repo.db.QueryRow(query, userId).Scan(
		&user.Id,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.ChatId,
		&user.LastInteraction,
		&user.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (repo *UserRepo) UpdateUser(user models.User) error {
	query := `
		UPDATE users
		SET first_name = ?,
		    last_name = ?,
		    username = ?,
		    chat_id = ?,
		    last_interaction = ?,
		    active = ?,
		    updated_at = strftime('%s', 'now')
		WHERE id = ?
	`
	result, err := repo.db.Exec(query,
		user.FirstName,
		user.LastName,
		user.Username,
		user.ChatId,
		user.LastInteraction,
		user.Active,
		user.Id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
