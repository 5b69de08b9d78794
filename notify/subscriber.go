package notify

import (
	"sync"
	"time"

	"github.com/barbearia/apiclient/logger"
)

// LogSubscriber returns a subscriber that writes every notification as a warn
// entry. It is the console counterpart of the app's rate-limit banner.
func LogSubscriber(log logger.Logger) Subscriber {
	return func(retryAfterMs int64, message string) {
		log.Warn().
			Int64("retry_after_ms", retryAfterMs).
			Dur("retry_after", time.Duration(retryAfterMs)*time.Millisecond).
			Msg(message)
	}
}

// Latest keeps only the most recent notification, superseding older ones.
// Its Subscribe method can be passed to Register.
type Latest struct {
	mu    sync.Mutex
	last  Notification
	seen  bool
	count int
}

// Subscribe records a notification.
func (l *Latest) Subscribe(retryAfterMs int64, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = Notification{RetryAfter: time.Duration(retryAfterMs) * time.Millisecond, Message: message}
	l.seen = true
	l.count++
}

// Get returns the latest notification and whether one has been seen.
func (l *Latest) Get() (Notification, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last, l.seen
}

// Count returns how many notifications were received in total.
func (l *Latest) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
