package roundwatch

import (
	"log/slog"
	"sort"
	"strings"
	"time"
)

// NotificationKind identifies a front-end notification.
type NotificationKind string

const (
	// NotifyLogHit reports that a target's number was queued for OSC.
	NotifyLogHit NotificationKind = "log-hit"

	// NotifyResetHit reports a reset, manual or round-over triggered.
	NotifyResetHit NotificationKind = "reset-hit"

	// NotifyRoundOver reports that a recorded round concluded.
	NotifyRoundOver NotificationKind = "round-over"

	// NotifyNewPlayer reports an unseen non-target player during a
	// recorded round.
	NotifyNewPlayer NotificationKind = "recording-new-player"
)

var allKinds = []NotificationKind{NotifyLogHit, NotifyResetHit, NotifyRoundOver, NotifyNewPlayer}

// NotificationKindNames returns a sorted list of all notification kind names.
func NotificationKindNames() []string {
	names := make([]string, len(allKinds))
	for i, k := range allKinds {
		names[i] = string(k)
	}
	sort.Strings(names)
	return names
}

// ParseNotificationKind converts a name to a NotificationKind.
// It is case-insensitive and trims surrounding whitespace.
func ParseNotificationKind(name string) (NotificationKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range allKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Notification is sent to the front-end.
type Notification struct {
	Kind      NotificationKind `json:"type"`
	Time      time.Time        `json:"time"`
	SessionID string           `json:"session_id,omitempty"`

	// Number is set for log-hit.
	Number int `json:"number,omitempty"`

	// Name is set for recording-new-player.
	Name string `json:"name,omitempty"`
}

// Notifier receives notifications. Notify is called from the tailer
// goroutine or the caller of SendReset and must not block for long.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

// MultiNotifier fans a notification out to each non-nil notifier in order.
func MultiNotifier(notifiers ...Notifier) Notifier {
	var list []Notifier
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return NotifierFunc(func(n Notification) {
		for _, target := range list {
			target.Notify(n)
		}
	})
}

// LogNotifier logs each notification at info level.
func LogNotifier(logger *slog.Logger) Notifier {
	return NotifierFunc(func(n Notification) {
		attrs := []any{"kind", string(n.Kind), "session", n.SessionID}
		switch n.Kind {
		case NotifyLogHit:
			attrs = append(attrs, "number", n.Number)
		case NotifyNewPlayer:
			attrs = append(attrs, "name", n.Name)
		}
		logger.Info("notification", attrs...)
	})
}

// FilterNotifier forwards only notifications whose kind passes the
// include/exclude lists. Exclude takes precedence.
func FilterNotifier(next Notifier, include, exclude []NotificationKind) Notifier {
	f := newCompiledFilter(include, exclude)
	if f == nil {
		return next
	}
	return NotifierFunc(func(n Notification) {
		if f.Allows(n.Kind) {
			next.Notify(n)
		}
	})
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
