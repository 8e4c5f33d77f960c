// Package tailer follows a growing VRChat log file and emits complete lines.
package tailer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// tailerErrBuffer is the buffer size for the error channel.
const tailerErrBuffer = 16

// Tailer wraps nxadm/tail. Lines are forwarded in file order with trailing
// CR removed and invalid UTF-8 replaced.
type Tailer struct {
	path   string
	t      *tail.Tail
	ctx    context.Context
	cancel context.CancelFunc
	lines  chan string
	errors chan error
	doneCh chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Config holds configuration for tailing.
type Config struct {
	// Follow continues reading as the file grows (tail -f).
	Follow bool

	// ReOpen reopens the file when it's truncated or recreated (tail -F).
	ReOpen bool

	// Poll uses polling instead of inotify/ReadDirectoryChangesW.
	Poll bool

	// MustExist fails New when the file does not exist.
	MustExist bool

	// FromStart reads from the beginning of the file instead of the end.
	FromStart bool
}

// DefaultConfig follows from the current end of an existing file.
func DefaultConfig() Config {
	return Config{
		Follow:    true,
		ReOpen:    false,
		Poll:      false,
		MustExist: true,
		FromStart: false,
	}
}

// New opens filepath and starts following it.
// The provided context controls the tailer's lifecycle.
func New(ctx context.Context, filepath string, cfg Config) (*Tailer, error) {
	location := &tail.SeekInfo{Offset: 0, Whence: 2} // End of file
	if cfg.FromStart {
		location = &tail.SeekInfo{Offset: 0, Whence: 0}
	}

	t, err := tail.TailFile(filepath, tail.Config{
		Follow:        cfg.Follow,
		ReOpen:        cfg.ReOpen,
		Poll:          cfg.Poll,
		MustExist:     cfg.MustExist,
		CompleteLines: true, // hold a partial line until its newline arrives
		Location:      location,
		Logger:        tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening tail: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	tailer := &Tailer{
		path:   filepath,
		t:      t,
		ctx:    ctx,
		cancel: cancel,
		lines:  make(chan string),
		errors: make(chan error, tailerErrBuffer),
		doneCh: make(chan struct{}),
	}

	go tailer.run()

	return tailer, nil
}

// Path returns the file being followed.
func (t *Tailer) Path() string {
	return t.path
}

// Lines returns a channel that receives log lines.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Errors returns a channel that receives read errors.
// Errors are sent non-blocking; if the buffer is full, errors are dropped.
func (t *Tailer) Errors() <-chan error {
	return t.errors
}

// Done is closed once the forwarding goroutine has exited.
func (t *Tailer) Done() <-chan struct{} {
	return t.doneCh
}

// Stop stops tailing and waits for the forwarding goroutine to exit.
// Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	t.mu.Unlock()

	t.cancel()
	<-t.doneCh
	err := t.t.Stop()
	t.t.Cleanup()
	return err
}

func (t *Tailer) run() {
	defer close(t.doneCh)
	defer close(t.lines)
	defer close(t.errors)

	for {
		select {
		case <-t.ctx.Done():
			return
		case line, ok := <-t.t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				select {
				case t.errors <- fmt.Errorf("tail %s: %w", t.path, line.Err):
				case <-t.ctx.Done():
					return
				default:
				}
				continue
			}
			select {
			case t.lines <- Sanitize(line.Text):
			case <-t.ctx.Done():
				return
			}
		}
	}
}

// Sanitize strips a trailing carriage return and replaces invalid UTF-8
// sequences with U+FFFD.
func Sanitize(line string) string {
	line = strings.TrimSuffix(line, "\r")
	return strings.ToValidUTF8(line, "\uFFFD")
}
