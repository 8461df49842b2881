package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v3"
)

// RateLimiter caps the number of requests a single user may have in flight.
// Extra requests are answered with a wait notice instead of queueing.
type RateLimiter struct {
	Locks                 sync.Map
	MaxConcurrentRequests int
}

func (r *RateLimiter) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user, ok := UserOf(c)
			if !ok {
				return next(c)
			}

			capacity := r.MaxConcurrentRequests
			if capacity < 1 {
				capacity = 1
			}
			userLock, _ := r.Locks.LoadOrStore(user.Id, make(chan struct{}, capacity))
			userChan := userLock.(chan struct{})

			select {
			case userChan <- struct{}{}:
				defer func() {
					<-userChan
				}()
				return next(c)
			default:
				return c.Send("Lütfen önceki isteğinizin tamamlanmasını bekleyin.")
			}
		}
	}
}
