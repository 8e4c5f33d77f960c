package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vrclog/roundwatch/internal/config"
	"github.com/vrclog/roundwatch/internal/osc"
	"github.com/vrclog/roundwatch/internal/ws"
	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

var (
	// serve flags
	serveLogDir  string
	serveTargets string
	serveHost    string
	servePort    int
	servePoll    bool
	serveToken   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the watcher behind a local websocket and HTTP API",
	Long: `Run the watcher as a long-lived process controlled by a front-end.

The front-end connects to ws://HOST:PORT/ws and sends commands:
  {"type":"start_watch","target_list":"Alice, Bob"}
  {"type":"toggle_recording","enabled":true}
  {"type":"send_reset"}

Notifications are pushed to every client:
  {"type":"log-hit","payload":1}
  {"type":"reset-hit","payload":null}
  {"type":"round-over","payload":null}
  {"type":"recording-new-player","payload":"Bob"}

The same controls are available over HTTP:
  GET  /api/status
  GET  /api/latest-log
  POST /api/watch       {"targets":[{"number":1,"value":"Alice"}]}
  POST /api/recording   {"enabled":true}
  POST /api/reset

Examples:
  # Serve on the default 127.0.0.1:8765
  roundwatch serve

  # Start watching immediately
  roundwatch serve --targets "Alice, Bob"

  # Use a config file and require a token
  roundwatch serve --config roundwatch.yaml --token s3cret`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveLogDir, "log-dir", "d", "",
		"VRChat log directory (auto-detected if not specified)")
	serveCmd.Flags().StringVarP(&serveTargets, "targets", "t", "",
		"Comma-separated player names to watch from startup, numbered from 1")
	serveCmd.Flags().StringVar(&serveHost, "host", "",
		"Listen host (default from config: 127.0.0.1)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"Listen port (default from config: 8765)")
	serveCmd.Flags().BoolVar(&servePoll, "poll", false,
		"Poll the log file instead of using file system notifications")
	serveCmd.Flags().StringVar(&serveToken, "token", "",
		"Require this token on every request")

	_ = serveCmd.RegisterFlagCompletionFunc("targets", completeTargets)
}

// applyServeFlags lets explicitly set flags override file values.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-dir") {
		cfg.LogDir = serveLogDir
	}
	if flags.Changed("targets") {
		cfg.Targets = roundwatch.ParseTargets(serveTargets)
	}
	if flags.Changed("host") {
		cfg.Server.Host = serveHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = servePort
	}
	if flags.Changed("poll") {
		cfg.Poll = servePoll
	}
	if flags.Changed("token") {
		cfg.Server.AuthToken = serveToken
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger()

	client, err := osc.NewClient(cfg.OSCClientConfig())
	if err != nil {
		return err
	}

	broadcaster := ws.NewBroadcaster(logger, cfg.Server.MaxConnections)
	defer broadcaster.Close()

	sup, err := roundwatch.NewSupervisor(
		roundwatch.WithLogDir(cfg.LogDir),
		roundwatch.WithPoll(cfg.Poll),
		roundwatch.WithLogger(logger),
		roundwatch.WithSender(client),
		roundwatch.WithNotifier(roundwatch.MultiNotifier(broadcaster, roundwatch.LogNotifier(logger))),
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
	if len(cfg.Targets) > 0 {
		if err := sup.StartWatch(cfg.Targets); err != nil {
			return err
		}
	}

	srv := ws.NewServer(sup, broadcaster, logger, cfg.Server.AllowedOrigins, cfg.Server.AuthToken)
	return ws.ListenAndServe(ctx, cfg.Server.Host, cfg.Server.Port, srv.Handler(), logger)
}
