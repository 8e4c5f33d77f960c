// Package event defines the classified log events that drive round tracking.
//
// This package is separated from the main roundwatch package to avoid import
// cycles between pkg/roundwatch and the internal classifier and round packages.
package event

import (
	"sort"
	"strings"
)

// Type represents the kind of classified log event.
type Type string

const (
	// RoundStarted indicates a new round has begun ("and the round type is").
	RoundStarted Type = "round_started"

	// RoundOver indicates the current round has ended ("RoundOver").
	RoundOver Type = "round_over"

	// Death indicates a player died ("[DEATH][name]").
	Death Type = "death"
)

// allTypes is the canonical list of all event types.
var allTypes = []Type{RoundStarted, RoundOver, Death}

// TypeNames returns a sorted list of all valid event type names.
func TypeNames() []string {
	names := make([]string, len(allTypes))
	for i, t := range allTypes {
		names[i] = string(t)
	}
	sort.Strings(names)
	return names
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(allTypes))
	for _, t := range allTypes {
		m[string(t)] = t
	}
	return m
}()

// ParseType converts a string to Type if valid.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := typeByName[name]
	return t, ok
}

// Event is a single classified occurrence found in a log line.
type Event struct {
	// Type is the event type.
	Type Type `json:"type"`

	// Name is the player name for Death events.
	Name string `json:"name,omitempty"`
}

// NewRoundStarted returns a RoundStarted event.
func NewRoundStarted() Event { return Event{Type: RoundStarted} }

// NewRoundOver returns a RoundOver event.
func NewRoundOver() Event { return Event{Type: RoundOver} }

// NewDeath returns a Death event for the named player.
func NewDeath(name string) Event { return Event{Type: Death, Name: name} }
