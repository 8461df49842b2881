package services

import (
	"context"
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// MessageSender is the part of *tele.Bot the notifier needs.
type MessageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type TelegramNotifier struct {
	bot MessageSender
}

func NewTelegramNotifier(bot MessageSender) *TelegramNotifier {
	return &TelegramNotifier{bot: bot}
}

func (n *TelegramNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	if _, err := n.bot.Send(tele.ChatID(chatID), text); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// undeliverable are Bot API answers that will not change on retry.
var undeliverable = []error{
	tele.ErrBlockedByUser,
	tele.ErrUserIsDeactivated,
	tele.ErrNotStartedByUser,
	tele.ErrChatNotFound,
	tele.ErrKickedFromGroup,
	tele.ErrKickedFromSuperGroup,
	tele.ErrKickedFromChannel,
}

// IsUndeliverable reports whether err means the chat can no longer receive
// messages from the bot.
func IsUndeliverable(err error) bool {
	for _, target := range undeliverable {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
