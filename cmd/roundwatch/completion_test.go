package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompleteKinds(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		flagVals   []string
		want       []string
	}{
		{
			name:       "empty input returns all kinds",
			toComplete: "",
			want:       []string{"log-hit", "recording-new-player", "reset-hit", "round-over"},
		},
		{
			name:       "prefix r filters",
			toComplete: "r",
			want:       []string{"recording-new-player", "reset-hit", "round-over"},
		},
		{
			name:       "comma prefix preserves already typed values",
			toComplete: "log-hit,ro",
			want:       []string{"log-hit,round-over"},
		},
		{
			name:       "excludes already typed values",
			toComplete: "reset-hit,re",
			want:       []string{"reset-hit,recording-new-player"},
		},
		{
			name:       "excludes values from flag",
			toComplete: "r",
			flagVals:   []string{"round-over"},
			want:       []string{"recording-new-player", "reset-hit"},
		},
		{
			name:       "case insensitive matching",
			toComplete: "  LOG ",
			want:       []string{"log-hit"},
		},
		{
			name:       "no match returns empty",
			toComplete: "xyz",
			want:       nil,
		},
		{
			name:       "all kinds used returns empty",
			toComplete: "log-hit,recording-new-player,reset-hit,round-over,",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a fresh command with the flag for each test
			cmd := &cobra.Command{}
			cmd.Flags().StringSlice("include-kinds", nil, "")
			if tt.flagVals != nil {
				if err := cmd.Flags().Set("include-kinds", strings.Join(tt.flagVals, ",")); err != nil {
					t.Fatalf("failed to set flag: %v", err)
				}
			}

			complete := completeKinds("include-kinds")
			got, dir := complete(cmd, nil, tt.toComplete)

			expectedDir := cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
			if dir != expectedDir {
				t.Errorf("directive = %v, want %v", dir, expectedDir)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompleteTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundwatch.yaml")
	if err := os.WriteFile(path, []byte("target_list: Alice, Albert, Bob\n"), 0644); err != nil {
		t.Fatal(err)
	}

	old := configPath
	configPath = path
	defer func() { configPath = old }()

	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{"empty input returns all targets", "", []string{"Alice", "Albert", "Bob"}},
		{"prefix filters", "Al", []string{"Alice", "Albert"}},
		{"case sensitive", "al", nil},
		{"skips typed names", "Alice, A", []string{"Alice,Albert"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeTargets(&cobra.Command{}, nil, tt.toComplete)
			if want := cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp; dir != want {
				t.Errorf("directive = %v, want %v", dir, want)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompleteTargets_BadConfig(t *testing.T) {
	old := configPath
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { configPath = old }()

	got, _ := completeTargets(&cobra.Command{}, nil, "")
	if got != nil {
		t.Errorf("candidates = %v, want nil", got)
	}
}
