package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

var (
	latestLogDir  string
	latestDirOnly bool
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the log file the watcher would follow",
	Long: `Print the most recently modified output_log_*.txt.

The directory is resolved in this order: --log-dir, the config file,
ROUNDWATCH_LOGDIR, then the standard VRChat location.`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

func init() {
	latestCmd.Flags().StringVarP(&latestLogDir, "log-dir", "d", "",
		"VRChat log directory (auto-detected if not specified)")
	latestCmd.Flags().BoolVar(&latestDirOnly, "dir", false,
		"Print the log directory instead of the file")
}

func runLatest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.LogDir
	if cmd.Flags().Changed("log-dir") {
		dir = latestLogDir
	}

	var path string
	if latestDirOnly {
		path, err = roundwatch.LogDir(dir)
	} else {
		path, err = roundwatch.LatestLogFile(dir)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
