package roundwatch

import (
	"errors"

	"github.com/vrclog/roundwatch/internal/logfinder"
)

// Sentinel errors returned by this package.
var (
	// ErrLogDirNotFound is returned when the VRChat log directory
	// cannot be found or accessed.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound

	// ErrNoLogFiles is returned when no log files are found
	// in the log directory.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrClosed is returned by operations on a closed Supervisor.
	ErrClosed = errors.New("roundwatch: supervisor closed")

	// ErrNotStarted is returned by StartWatch before Start.
	ErrNotStarted = errors.New("roundwatch: supervisor not started")
)
