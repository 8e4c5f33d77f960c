package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

var targetsFormat string

var targetsCmd = &cobra.Command{
	Use:   "targets [names...]",
	Short: "Show how a target list is numbered",
	Long: `Split a comma-separated list of player names the way --targets does,
and print the number each name is sent as.

Empty entries are dropped and surrounding spaces are trimmed. Without
arguments the targets from the config file are printed.

Examples:
  roundwatch targets "Alice, Bob, ,Carol"
  roundwatch targets Alice Bob --format jsonl`,
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().StringVarP(&targetsFormat, "format", "f", "pretty",
		"Output format: jsonl, pretty")
	_ = targetsCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runTargets(cmd *cobra.Command, args []string) error {
	if err := checkFormat(targetsFormat); err != nil {
		return err
	}

	var targets []roundwatch.Target
	if len(args) > 0 {
		targets = roundwatch.ParseTargets(strings.Join(args, ","))
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		targets = cfg.Targets
	}

	return writeTargets(targetsFormat, targets, cmd.OutOrStdout())
}

func writeTargets(format string, targets []roundwatch.Target, w io.Writer) error {
	for _, t := range targets {
		var err error
		if format == "jsonl" {
			err = OutputJSON(t, w)
		} else {
			_, err = fmt.Fprintf(w, "%d\t%s\n", t.Number, t.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
