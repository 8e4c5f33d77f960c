// Package classifier maps raw VRChat log lines to round events.
package classifier

import (
	"strings"

	"github.com/vrclog/roundwatch/pkg/roundwatch/event"
)

// Markers searched for in each line. Matching is case-sensitive.
const (
	RoundStartMarker = "and the round type is"
	RoundOverMarker  = "RoundOver"
	DeathMarker      = "[DEATH]["
)

// Classify returns the events found in line, in detection order:
// RoundStarted, RoundOver, then Death. Each marker is searched independently,
// so a single line may yield several events. A line with no markers yields nil.
func Classify(line string) []event.Event {
	var events []event.Event

	if strings.Contains(line, RoundStartMarker) {
		events = append(events, event.NewRoundStarted())
	}
	if strings.Contains(line, RoundOverMarker) {
		events = append(events, event.NewRoundOver())
	}
	if name, ok := DeathName(line); ok {
		events = append(events, event.NewDeath(name))
	}

	return events
}

// DeathName extracts the player name from the first "[DEATH][" occurrence
// in line. It reports false when the marker is absent or no closing "]"
// follows it. An empty bracket yields an empty name.
func DeathName(line string) (string, bool) {
	start := strings.Index(line, DeathMarker)
	if start < 0 {
		return "", false
	}

	rest := line[start+len(DeathMarker):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", false
	}

	return rest[:end], true
}
