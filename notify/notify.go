// Package notify decouples transport-level rate-limit events from whatever
// presents them to the user.
//
// A Channel holds at most one subscriber. Register replaces the previous
// subscriber (last writer wins) and there is no unregister beyond
// registering nil. Emit never fails: without a subscriber the notification is
// dropped, and a panicking subscriber is recovered so the retry loop that
// emitted the event keeps going.
package notify

import (
	"sync/atomic"
	"time"
)

// Subscriber receives the wait in milliseconds and a human-readable message.
type Subscriber func(retryAfterMs int64, message string)

// Notification is one rate-limit event. It is transient: subscribers only
// ever need the most recent one.
type Notification struct {
	RetryAfter time.Duration
	Message    string
}

// RetryAfterMs returns the wait in whole milliseconds.
func (n Notification) RetryAfterMs() int64 {
	return n.RetryAfter.Milliseconds()
}

// Channel is a single-slot subscriber registry. The zero value is ready to
// use and safe for concurrent Register and Emit.
type Channel struct {
	slot    atomic.Pointer[Subscriber]
	dropped atomic.Int64
	panics  atomic.Int64
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Register installs fn as the only subscriber. A nil fn empties the slot.
func (c *Channel) Register(fn Subscriber) {
	if fn == nil {
		c.slot.Store(nil)
		return
	}
	c.slot.Store(&fn)
}

// Emit delivers n synchronously to the current subscriber, if any.
func (c *Channel) Emit(n Notification) {
	fn := c.slot.Load()
	if fn == nil {
		c.dropped.Add(1)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.panics.Add(1)
		}
	}()
	(*fn)(n.RetryAfterMs(), n.Message)
}

// HasSubscriber reports whether a subscriber is registered.
func (c *Channel) HasSubscriber() bool {
	return c.slot.Load() != nil
}

// Dropped counts notifications emitted while no subscriber was registered.
func (c *Channel) Dropped() int64 { return c.dropped.Load() }

// RecoveredPanics counts subscriber panics swallowed by Emit.
func (c *Channel) RecoveredPanics() int64 { return c.panics.Load() }

var defaultChannel = NewChannel()

// Default returns the process-wide channel used by Register and Emit.
func Default() *Channel { return defaultChannel }

// Register installs fn on the process-wide channel.
func Register(fn Subscriber) { defaultChannel.Register(fn) }

// Emit delivers a notification on the process-wide channel.
func Emit(retryAfter time.Duration, message string) {
	defaultChannel.Emit(Notification{RetryAfter: retryAfter, Message: message})
}
