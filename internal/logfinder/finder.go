// Package logfinder locates the VRChat log directory and its newest log file.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnvLogDir is the environment variable name for specifying log directory.
const EnvLogDir = "ROUNDWATCH_LOGDIR"

// LogFilePattern matches VRChat client log files.
const LogFilePattern = "output_log_*.txt"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// DefaultLogDirs returns candidate VRChat log directories in priority order.
func DefaultLogDirs() []string {
	var dirs []string

	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
	}
	if localAppData != "" {
		// LocalLow is a sibling of Local
		localLow := filepath.Join(filepath.Dir(localAppData), "LocalLow")
		dirs = append(dirs, filepath.Join(localLow, "VRChat", "VRChat"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidate := filepath.Join(home, "AppData", "LocalLow", "VRChat", "VRChat")
		if len(dirs) == 0 || dirs[0] != candidate {
			dirs = append(dirs, candidate)
		}
	}

	return dirs
}

// FindLogDir returns the VRChat log directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. ROUNDWATCH_LOGDIR environment variable
//  3. DefaultLogDirs()
//
// A directory only qualifies if it contains at least one log file.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveLogDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s is not a directory with log files", ErrLogDirNotFound, explicit)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveLogDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s points to %s, which has no log files", ErrLogDirNotFound, EnvLogDir, envDir)
	}

	for _, dir := range DefaultLogDirs() {
		if resolved := resolveLogDir(dir); resolved != "" {
			return resolved, nil
		}
	}

	return "", ErrLogDirNotFound
}

// FindLatestLogFile returns the most recently modified log file in dir.
// Files that cannot be stat'ed are skipped.
func FindLatestLogFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, LogFilePattern))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	var (
		latest     string
		latestTime time.Time
	)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = path
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", ErrNoLogFiles
	}
	return latest, nil
}

// FindLatest combines FindLogDir and FindLatestLogFile.
func FindLatest(explicitDir string) (string, error) {
	dir, err := FindLogDir(explicitDir)
	if err != nil {
		return "", err
	}
	return FindLatestLogFile(dir)
}

// resolveLogDir resolves symlinks and returns the directory if it holds log
// files, or "" otherwise.
func resolveLogDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}

	matches, err := filepath.Glob(filepath.Join(resolved, LogFilePattern))
	if err != nil || len(matches) == 0 {
		return ""
	}

	return resolved
}
