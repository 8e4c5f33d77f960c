package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for roundwatch and write it to stdout.

Flag completion covers notification kinds, output formats, and the target
names listed in the config file given with --config.

  $ source <(roundwatch completion bash)
  $ roundwatch completion fish | source
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Usage()
		}

		root := cmd.Root()
		out := cmd.OutOrStdout()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completeKinds returns a completion function for notification kind flags.
// It supports comma-separated values and excludes already-selected kinds.
// Returns full values (prefix + candidate) for reliable cross-shell behavior.
func completeKinds(flagName string) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		parts := strings.Split(toComplete, ",")
		prefix := strings.Join(parts[:len(parts)-1], ",")
		if prefix != "" {
			prefix += ","
		}
		current := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))

		used := make(map[string]struct{})
		addUsed := func(v string) {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				used[v] = struct{}{}
			}
		}

		for _, p := range parts[:len(parts)-1] {
			addUsed(p)
		}

		// Values already set on the flag (for repeated flag usage)
		if vals, err := cmd.Flags().GetStringSlice(flagName); err == nil {
			for _, v := range vals {
				addUsed(v)
			}
		}

		var candidates []string
		for _, name := range ValidKindNames() {
			if _, ok := used[name]; ok {
				continue
			}
			if strings.HasPrefix(name, current) {
				candidates = append(candidates, prefix+name)
			}
		}

		return candidates, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	}
}

// registerKindCompletion registers completion for a notification kind flag.
func registerKindCompletion(cmd *cobra.Command, flagName string) {
	_ = cmd.RegisterFlagCompletionFunc(flagName, completeKinds(flagName))
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"jsonl", "pretty"}, cobra.ShellCompDirectiveNoFileComp
}

// completeTargets offers the target names from the config file for the
// comma-separated --targets flag. Names already typed are skipped; matching
// is case-sensitive because VRChat display names are.
func completeTargets(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	parts := strings.Split(toComplete, ",")
	prefix := strings.Join(parts[:len(parts)-1], ",")
	if prefix != "" {
		prefix += ","
	}
	current := strings.TrimSpace(parts[len(parts)-1])

	used := make(map[string]struct{}, len(parts))
	for _, p := range parts[:len(parts)-1] {
		used[strings.TrimSpace(p)] = struct{}{}
	}

	var candidates []string
	for _, target := range cfg.Targets {
		if _, ok := used[target.Value]; ok {
			continue
		}
		if strings.HasPrefix(target.Value, current) {
			candidates = append(candidates, prefix+target.Value)
		}
	}
	return candidates, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}
