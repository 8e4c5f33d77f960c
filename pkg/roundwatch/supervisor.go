package roundwatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vrclog/roundwatch/internal/classifier"
	"github.com/vrclog/roundwatch/internal/dispatch"
	"github.com/vrclog/roundwatch/internal/logfinder"
	"github.com/vrclog/roundwatch/internal/osc"
	"github.com/vrclog/roundwatch/internal/round"
	"github.com/vrclog/roundwatch/internal/tailer"
)

// Supervisor owns the dispatcher, the round state and at most one watch
// session. Construct it with NewSupervisor, call Start once, then drive it
// with StartWatch, SendReset and ToggleRecording from any goroutine.
type Supervisor struct {
	cfg        *config
	logger     *slog.Logger
	sender     Sender
	notifier   Notifier
	machine    *round.Machine
	dispatcher *dispatch.Dispatcher
	now        func() time.Time

	// startMu serializes StartWatch and Close so sessions never overlap.
	startMu sync.Mutex

	mu           sync.Mutex
	started      bool
	closed       bool
	baseCtx      context.Context
	cancel       context.CancelFunc
	dispatchDone chan struct{}
	session      *session

	active atomic.Int32
}

// session is one StartWatch call. logFile is empty when no log file could be
// opened; the session then has no tailer.
type session struct {
	id        string
	logFile   string
	targets   *round.Targets
	startedAt time.Time

	cancel context.CancelFunc
	done   chan struct{} // nil when there is no tailer
}

// Status is a point-in-time view of a Supervisor.
type Status struct {
	SessionID   string    `json:"session_id,omitempty"`
	LogFile     string    `json:"log_file,omitempty"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	Watching    bool      `json:"watching"`
	State       string    `json:"state"`
	Recording   bool      `json:"recording"`
	InRound     bool      `json:"in_round"`
	Targets     []Target  `json:"targets"`
	Pending     int       `json:"pending"`
	SeenPlayers []string  `json:"seen_players"`
}

// NewSupervisor creates a supervisor.
// Validates options and builds the default OSC client if no sender is set.
// Does NOT start goroutines.
func NewSupervisor(opts ...Option) (*Supervisor, error) {
	cfg := applyOptions(opts)

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sender := cfg.sender
	if sender == nil {
		client, err := osc.NewClient(osc.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("creating OSC client: %w", err)
		}
		sender = client
	}

	notifier := cfg.notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	d, err := dispatch.New(sender, dispatch.Config{
		MinInterval:  cfg.minSendInterval,
		PollInterval: cfg.dispatchInterval,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Supervisor{
		cfg:        cfg,
		logger:     logger,
		sender:     sender,
		notifier:   notifier,
		machine:    round.NewMachine(),
		dispatcher: d,
		now:        time.Now,
	}, nil
}

// Start launches the dispatcher worker. It lives until ctx is cancelled or
// Close is called, across any number of watch sessions.
// Calling Start again is a no-op.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}
	s.started = true

	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.dispatchDone = make(chan struct{})

	go func(ctx context.Context, done chan<- struct{}) {
		defer close(done)
		s.dispatcher.Run(ctx)
	}(s.baseCtx, s.dispatchDone)

	s.logger.Debug("dispatcher started",
		"min_interval", s.cfg.minSendInterval,
		"poll_interval", s.cfg.dispatchInterval,
	)
	return nil
}

// StartWatch replaces the current watch session.
//
// The previous tailer is stopped and joined before anything else happens.
// Then the dispatch queue is cleared, the send timer is reset and the newest
// log file is tailed from its current end with a copy of targets.
//
// A missing log directory or log file is logged and leaves the session
// without a tailer; StartWatch still returns nil so manual resets keep
// working. Round and recording state are not touched.
func (s *Supervisor) StartWatch(targets []Target) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	prev := s.session
	s.session = nil
	baseCtx := s.baseCtx
	s.mu.Unlock()

	s.stopSession(prev)

	s.dispatcher.Clear()
	s.dispatcher.ResetTimer()

	sess := &session{
		id:        uuid.NewString(),
		targets:   round.NewTargets(targets),
		startedAt: s.now(),
	}
	logger := s.logger.With("session", sess.id)

	logFile, err := logfinder.FindLatest(s.cfg.logDir)
	if err != nil {
		logger.Warn("no log file to watch", "error", err)
		s.setSession(sess)
		return nil
	}

	ctx, cancel := context.WithCancel(baseCtx)
	cfg := tailer.DefaultConfig()
	cfg.Poll = s.cfg.poll
	t, err := tailer.New(ctx, logFile, cfg)
	if err != nil {
		cancel()
		logger.Warn("failed to open log file", "path", logFile, "error", err)
		s.setSession(sess)
		return nil
	}

	sess.logFile = logFile
	sess.cancel = cancel
	sess.done = make(chan struct{})

	s.active.Add(1)
	go s.runSession(ctx, sess, t, logger)

	s.setSession(sess)
	logger.Info("watching log file", "path", logFile, "targets", sess.targets.Len())
	return nil
}

func (s *Supervisor) setSession(sess *session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
}

// stopSession cancels sess and waits for its tailer goroutine to exit.
func (s *Supervisor) stopSession(sess *session) {
	if sess == nil || sess.done == nil {
		return
	}
	sess.cancel()
	<-sess.done
	s.logger.Debug("watch session stopped", "session", sess.id)
}

func (s *Supervisor) runSession(ctx context.Context, sess *session, t *tailer.Tailer, logger *slog.Logger) {
	defer close(sess.done)
	defer s.active.Add(-1)
	defer func() { _ = t.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				return
			}
			s.handleLine(ctx, sess, line)
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			logger.Warn("log read error", "error", err)
		}
	}
}

// handleLine classifies one log line and runs the resulting effects.
func (s *Supervisor) handleLine(ctx context.Context, sess *session, line string) {
	for _, ev := range classifier.Classify(line) {
		effects := s.machine.Apply(ev, sess.targets)
		s.execute(ctx, sess.id, effects)
	}
}

// execute performs effects in order. It runs without holding any lock.
func (s *Supervisor) execute(ctx context.Context, sessionID string, effects []round.Effect) {
	for _, eff := range effects {
		switch eff.Kind {
		case round.ClearQueue:
			s.dispatcher.Clear()
		case round.SendReset:
			if err := s.sender.SendReset(ctx); err != nil {
				s.logger.Warn("OSC reset failed", "session", sessionID, "error", err)
			}
			s.notify(Notification{Kind: NotifyResetHit, SessionID: sessionID})
		case round.NotifyRoundOver:
			s.notify(Notification{Kind: NotifyRoundOver, SessionID: sessionID})
		case round.NotifyNewPlayer:
			s.notify(Notification{Kind: NotifyNewPlayer, SessionID: sessionID, Name: eff.Name})
		case round.Enqueue:
			s.dispatcher.Enqueue(eff.Number)
		case round.NotifyHit:
			s.notify(Notification{Kind: NotifyLogHit, SessionID: sessionID, Number: eff.Number})
		default:
			s.logger.Debug("unknown effect", "kind", eff.Kind.String())
		}
	}
}

func (s *Supervisor) notify(n Notification) {
	n.Time = s.now()
	s.notifier.Notify(n)
}

// SendReset drops pending numbers, sends the OSC reset and emits reset-hit.
// The notification is emitted even when the send fails; the send error is
// returned.
func (s *Supervisor) SendReset() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	ctx := s.baseCtx
	sessionID := ""
	if s.session != nil {
		sessionID = s.session.id
	}
	s.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	s.dispatcher.Clear()
	err := s.sender.SendReset(ctx)
	s.notify(Notification{Kind: NotifyResetHit, SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("sending reset: %w", err)
	}
	return nil
}

// ToggleRecording turns recording on or off. Turning it on forgets every
// player seen so far. The dispatch queue is not touched.
func (s *Supervisor) ToggleRecording(enabled bool) {
	s.machine.SetRecording(enabled)
	s.logger.Info("recording toggled", "enabled", enabled)
}

// Status returns the current session and round state.
// The round state and the pending count are read separately, so right after
// a round ends Status may briefly report an idle round with items pending.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()

	snap := s.machine.Snapshot()
	st := Status{
		State:       snap.State.String(),
		Recording:   snap.State.Recording(),
		InRound:     snap.State.InRound(),
		Pending:     s.dispatcher.Len(),
		SeenPlayers: snap.Seen,
		Targets:     []Target{},
	}
	if st.SeenPlayers == nil {
		st.SeenPlayers = []string{}
	}

	if sess != nil {
		st.SessionID = sess.id
		st.LogFile = sess.logFile
		st.StartedAt = sess.startedAt
		if list := sess.targets.List(); list != nil {
			st.Targets = list
		}
		if sess.done != nil {
			select {
			case <-sess.done:
			default:
				st.Watching = true
			}
		}
	}
	return st
}

// ActiveTailers returns the number of running tailer goroutines.
// It is never greater than one.
func (s *Supervisor) ActiveTailers() int {
	return int(s.active.Load())
}

// LatestLogFile returns the log file the next StartWatch would open.
func (s *Supervisor) LatestLogFile() (string, error) {
	return LatestLogFile(s.cfg.logDir)
}

// Close stops the current session and the dispatcher.
// Safe to call multiple times.
// Blocks until all goroutines have exited.
func (s *Supervisor) Close() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sess := s.session
	cancel := s.cancel
	dispatchDone := s.dispatchDone
	s.mu.Unlock()

	s.stopSession(sess)

	if cancel != nil {
		cancel()
	}
	if dispatchDone != nil {
		<-dispatchDone
	}
	return nil
}
