package roundwatch

import "github.com/vrclog/roundwatch/internal/logfinder"

// LatestLogFile returns the most recently modified output_log_*.txt in dir.
// An empty dir is auto-detected the same way a Supervisor does it.
func LatestLogFile(dir string) (string, error) {
	return logfinder.FindLatest(dir)
}

// LogDir returns the log directory that would be used for dir.
func LogDir(dir string) (string, error) {
	return logfinder.FindLogDir(dir)
}
