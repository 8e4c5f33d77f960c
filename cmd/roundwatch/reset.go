package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vrclog/roundwatch/internal/osc"
)

var resetTimeout time.Duration

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Send a single OSC reset",
	Long: `Send the reset parameter (bool true) once and exit.

The endpoint and address come from the config file, defaulting to
/avatar/parameters/Lunatic_Reset on 127.0.0.1:9000.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().DurationVar(&resetTimeout, "timeout", 2*time.Second,
		"Give up sending after this long")
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := osc.NewClient(cfg.OSCClientConfig())
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, resetTimeout)
	defer cancel()

	if err := client.SendReset(ctx); err != nil {
		return fmt.Errorf("sending reset: %w", err)
	}
	newLogger().Debug("reset sent", "address", cfg.OSC.ResetAddress, "host", cfg.OSC.Host, "port", cfg.OSC.Port)
	return nil
}
