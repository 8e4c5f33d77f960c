package roundwatch

import (
	"github.com/vrclog/roundwatch/internal/round"
	"github.com/vrclog/roundwatch/pkg/roundwatch/event"
)

// Re-export event and target types for convenience.
// Users can import just "github.com/vrclog/roundwatch/pkg/roundwatch".

// Event is a classified log event.
type Event = event.Event

// EventType is the kind of classified log event.
type EventType = event.Type

// Event type constants.
const (
	EventRoundStarted = event.RoundStarted
	EventRoundOver    = event.RoundOver
	EventDeath        = event.Death
)

// Target maps a player display name to the number sent over OSC.
type Target = round.Target

// ParseTargets splits a comma-separated list of names into targets numbered
// from 1, skipping empty entries.
func ParseTargets(text string) []Target {
	return round.ParseList(text)
}
