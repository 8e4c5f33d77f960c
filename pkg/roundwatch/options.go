package roundwatch

import (
	"context"
	"log/slog"
	"time"
)

// Sender transmits OSC messages. *osc.Client from internal/osc satisfies it;
// tests substitute fakes.
type Sender interface {
	SendNumber(ctx context.Context, number int) error
	SendReset(ctx context.Context) error
}

// Option configures a Supervisor using the functional options pattern.
type Option func(*config)

// config holds internal configuration for the supervisor.
type config struct {
	logDir           string
	poll             bool
	logger           *slog.Logger
	sender           Sender
	notifier         Notifier
	minSendInterval  time.Duration
	dispatchInterval time.Duration
}

// defaultConfig returns a config with the production timings.
func defaultConfig() *config {
	return &config{
		minSendInterval:  500 * time.Millisecond,
		dispatchInterval: 100 * time.Millisecond,
	}
}

// applyOptions applies functional options to a config.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithLogDir sets the VRChat log directory.
// If not set, auto-detects from default Windows locations.
// Can also be set via ROUNDWATCH_LOGDIR environment variable.
func WithLogDir(dir string) Option {
	return func(c *config) {
		c.logDir = dir
	}
}

// WithPoll makes the tailer poll the log file instead of relying on file
// system notifications.
func WithPoll(poll bool) Option {
	return func(c *config) {
		c.poll = poll
	}
}

// WithLogger sets the slog logger.
// If nil (default), logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSender sets the OSC sender.
// Default: an OSC client for 127.0.0.1:9000.
func WithSender(sender Sender) Option {
	return func(c *config) {
		c.sender = sender
	}
}

// WithNotifier sets the receiver of front-end notifications.
// Use MultiNotifier to fan out to several receivers.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithMinSendInterval sets the minimum time between two OSC number sends.
// Default: 500ms.
func WithMinSendInterval(d time.Duration) Option {
	return func(c *config) {
		c.minSendInterval = d
	}
}

// WithDispatchPollInterval sets how often the dispatcher checks its queue.
// Default: 100ms.
func WithDispatchPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.dispatchInterval = d
	}
}
