package middleware

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v3"
)

// Logger records every update once it has been handled. Message texts are
// logged by length only; they are reminder contents.
func Logger() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			ctx := ContextOf(c)
			start := time.Now()

			attrs := []any{"update_id", c.Update().ID}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, "chat_id", chat.ID)
			}
			if msg := c.Message(); msg != nil {
				if cmd := commandOf(msg); cmd != "" {
					attrs = append(attrs, "command", cmd)
				}
				attrs = append(attrs, "text_len", len([]rune(msg.Text)))
			}

			err := next(c)
			attrs = append(attrs, "duration", time.Since(start))
			if err != nil {
				slog.ErrorContext(ctx, "Update handling failed", append(attrs, "error", err)...)
				return err
			}
			slog.InfoContext(ctx, "Update handled", attrs...)
			return nil
		}
	}
}

func commandOf(msg *tele.Message) string {
	for _, entity := range msg.Entities {
		if entity.Type == tele.EntityCommand && entity.Offset == 0 {
			return msg.EntityText(entity)
		}
	}
	return ""
}
