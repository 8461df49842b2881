package middleware

import (
	"context"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"
	"vadimgribanov.com/tg-reminder/pkg/logging"
)

const requestContextKey = "requestContext"

// RequestContext derives a per-update context from ctx tagged with the
// sender and a fresh request ID.
func RequestContext(ctx context.Context) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			var userID int64
			if sender := c.Sender(); sender != nil {
				userID = sender.ID
			}
			c.Set(requestContextKey, logging.WithRequest(ctx, userID, uuid.New().String()))
			return next(c)
		}
	}
}

// ContextOf returns the context stored by RequestContext, or Background when
// the middleware did not run.
func ContextOf(c tele.Context) context.Context {
	if ctx, ok := c.Get(requestContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}
