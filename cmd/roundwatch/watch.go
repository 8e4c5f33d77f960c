package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vrclog/roundwatch/internal/osc"
	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

var (
	// watch flags
	watchLogDir       string
	watchTargets      string
	watchFormat       string
	watchIncludeKinds []string
	watchExcludeKinds []string
	watchRecord       bool
	watchPoll         bool
	watchDryRun       bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the log without a front-end and print notifications",
	Long: `Watch the newest VRChat log and print notifications to stdout.

Matched target deaths are sent over OSC exactly as in 'serve'. Output is
JSON Lines by default.

Examples:
  # Watch two players
  roundwatch watch --targets "Alice, Bob"

  # Record new players during the next round, human-readable
  roundwatch watch --targets Alice --record --format pretty

  # Only show hits, without sending anything
  roundwatch watch --targets Alice --include-kinds log-hit --dry-run

  # Pipe to jq
  roundwatch watch --targets Alice | jq 'select(.type == "log-hit")'`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchLogDir, "log-dir", "d", "",
		"VRChat log directory (auto-detected if not specified)")
	watchCmd.Flags().StringVarP(&watchTargets, "targets", "t", "",
		"Comma-separated player names to watch, numbered from 1")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	watchCmd.Flags().StringSliceVar(&watchIncludeKinds, "include-kinds", nil,
		"Notification kinds to include (comma-separated: log-hit,reset-hit,round-over,recording-new-player)")
	watchCmd.Flags().StringSliceVar(&watchExcludeKinds, "exclude-kinds", nil,
		"Notification kinds to exclude (comma-separated)")
	watchCmd.Flags().BoolVar(&watchRecord, "record", false,
		"Turn recording on at startup")
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false,
		"Poll the log file instead of using file system notifications")
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false,
		"Log OSC messages instead of sending them")

	registerKindCompletion(watchCmd, "include-kinds")
	registerKindCompletion(watchCmd, "exclude-kinds")
	_ = watchCmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = watchCmd.RegisterFlagCompletionFunc("targets", completeTargets)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := checkFormat(watchFormat); err != nil {
		return err
	}

	includes, err := NormalizeKinds(watchIncludeKinds)
	if err != nil {
		return err
	}
	excludes, err := NormalizeKinds(watchExcludeKinds)
	if err != nil {
		return err
	}
	if err := RejectOverlap(includes, excludes); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-dir") {
		cfg.LogDir = watchLogDir
	}
	if flags.Changed("targets") {
		cfg.Targets = roundwatch.ParseTargets(watchTargets)
	}
	if flags.Changed("poll") {
		cfg.Poll = watchPoll
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(cfg.Targets) == 0 {
		return fmt.Errorf("no targets: use --targets or a config file with targets")
	}

	logger := newLogger()

	var sender roundwatch.Sender
	if watchDryRun {
		sender = logSender{logger: logger, numberAddress: cfg.OSC.NumberAddress, resetAddress: cfg.OSC.ResetAddress}
	} else {
		client, err := osc.NewClient(cfg.OSCClientConfig())
		if err != nil {
			return err
		}
		sender = client
	}

	notifier := roundwatch.FilterNotifier(newWriterNotifier(watchFormat, cmd.OutOrStdout(), logger), includes, excludes)

	sup, err := roundwatch.NewSupervisor(
		roundwatch.WithLogDir(cfg.LogDir),
		roundwatch.WithPoll(cfg.Poll),
		roundwatch.WithLogger(logger),
		roundwatch.WithSender(sender),
		roundwatch.WithNotifier(notifier),
		roundwatch.WithMinSendInterval(cfg.Dispatch.MinInterval.Duration()),
		roundwatch.WithDispatchPollInterval(cfg.Dispatch.PollInterval.Duration()),
	)
	if err != nil {
		return err
	}
	defer sup.Close()

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sup.Start(ctx); err != nil {
		return err
	}
	if err := sup.StartWatch(cfg.Targets); err != nil {
		return err
	}
	if sup.ActiveTailers() == 0 {
		fmt.Fprintln(os.Stderr, "warning: no log file found, only manual resets will work")
	}
	if watchRecord {
		sup.ToggleRecording(true)
	}

	<-ctx.Done()
	return nil
}

// writerNotifier prints each notification to w. Write errors are logged.
type writerNotifier struct {
	format string
	logger *slog.Logger

	mu sync.Mutex
	w  io.Writer
}

func newWriterNotifier(format string, w io.Writer, logger *slog.Logger) *writerNotifier {
	return &writerNotifier{format: format, w: w, logger: logger}
}

func (n *writerNotifier) Notify(note roundwatch.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := OutputNotification(n.format, note, n.w); err != nil {
		n.logger.Warn("output error", "error", err)
	}
}

// logSender stands in for the OSC client with --dry-run.
type logSender struct {
	logger        *slog.Logger
	numberAddress string
	resetAddress  string
}

func (s logSender) SendNumber(_ context.Context, number int) error {
	s.logger.Info("dry-run OSC number", "address", s.numberAddress, "value", number)
	return nil
}

func (s logSender) SendReset(context.Context) error {
	s.logger.Info("dry-run OSC reset", "address", s.resetAddress)
	return nil
}
