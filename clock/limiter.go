package clock

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiter keeps one token bucket per user.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*rate.Limiter
	r        rate.Limit
	b        int
}

func newUserLimiter(perMinute float64, burst int) *userLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &userLimiter{
		limiters: make(map[uint]*rate.Limiter),
		r:        rate.Limit(perMinute / 60),
		b:        max(1, burst),
	}
}

// allow reports whether userID may submit at now. A nil limiter allows everything.
func (l *userLimiter) allow(userID uint, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.r, l.b)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(now, 1)
}
