package middleware

import (
	"log/slog"

	tele "gopkg.in/telebot.v3"
	"vadimgribanov.com/tg-reminder/internal/models"
)

const userKey = "user"

type UserRepo interface {
	Register(userId int64, firstName string, lastName string, username string, chatId int64) (models.User, error)
	CheckIfUserExists(userId int64) (bool, error)
	GetUser(userId int64) (models.User, error)
	UpdateUser(user models.User) error
}

// UserAuthenticator registers senders on first contact and lets only active
// users through. Activation is decided by the repository's allow-list.
type UserAuthenticator struct {
	UserRepo UserRepo
}

func (u *UserAuthenticator) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := ContextOf(c)
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			user, err := u.loadUser(c, sender)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to load user", "error", err)
				return err
			}
			slog.DebugContext(ctx, "User authenticated", "user", user.DisplayName(), "active", user.Active)

			if !user.Active {
				return c.Send("Bu botu kullanma yetkiniz yok. Lütfen yöneticiyle iletişime geçin.")
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

func (u *UserAuthenticator) loadUser(c tele.Context, sender *tele.User) (models.User, error) {
	exists, err := u.UserRepo.CheckIfUserExists(sender.ID)
	if err != nil {
		return models.User{}, err
	}

	chatId := sender.ID
	if chat := c.Chat(); chat != nil {
		chatId = chat.ID
	}
	if !exists {
		return u.UserRepo.Register(sender.ID, sender.FirstName, sender.LastName, sender.Username, chatId)
	}

	user, err := u.UserRepo.GetUser(sender.ID)
	if err != nil {
		return models.User{}, err
	}
	user.ChatId = chatId
	user.Touch()
	if err := u.UserRepo.UpdateUser(user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UserOf returns the user stored by UserAuthenticator.
func UserOf(c tele.Context) (models.User, bool) {
	user, ok := c.Get(userKey).(models.User)
	return user, ok
}
