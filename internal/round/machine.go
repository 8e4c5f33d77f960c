// Package round tracks recording and round progress and decides which side
// effects each classified log event should trigger.
//
// The Machine never performs I/O. Apply returns a list of Effects that the
// caller executes after the machine's lock has been released.
package round

import (
	"sort"
	"sync"

	"github.com/vrclog/roundwatch/pkg/roundwatch/event"
)

// State is the combined recording/round state.
type State int

const (
	// Idle means recording is off. Rounds are not tracked.
	Idle State = iota
	// Armed means recording is on and no round is in progress yet.
	Armed
	// InRound means recording is on and a round is in progress.
	InRound
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case InRound:
		return "in_round"
	default:
		return "unknown"
	}
}

// Recording reports whether recording is enabled in this state.
func (s State) Recording() bool { return s != Idle }

// InRound reports whether a recorded round is in progress.
func (s State) InRound() bool { return s == InRound }

// EffectKind identifies a side effect requested by the machine.
type EffectKind int

const (
	// ClearQueue drops every pending dispatch.
	ClearQueue EffectKind = iota + 1
	// SendReset sends the OSC reset and the reset-hit notification.
	SendReset
	// NotifyRoundOver reports that a recorded round has concluded.
	NotifyRoundOver
	// NotifyNewPlayer reports a previously unseen non-target player.
	NotifyNewPlayer
	// Enqueue queues a target number for rate-limited dispatch.
	Enqueue
	// NotifyHit reports that a target number was matched.
	NotifyHit
)

func (k EffectKind) String() string {
	switch k {
	case ClearQueue:
		return "clear_queue"
	case SendReset:
		return "send_reset"
	case NotifyRoundOver:
		return "round_over"
	case NotifyNewPlayer:
		return "new_player"
	case Enqueue:
		return "enqueue"
	case NotifyHit:
		return "hit"
	default:
		return "unknown"
	}
}

// Effect is a single side effect. Number is set for Enqueue and NotifyHit,
// Name for NotifyNewPlayer.
type Effect struct {
	Kind   EffectKind
	Number int
	Name   string
}

// Snapshot is a consistent copy of the machine state.
type Snapshot struct {
	State State
	Seen  []string
}

// Machine is safe for concurrent use.
type Machine struct {
	mu    sync.Mutex
	state State
	seen  map[string]struct{}
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{seen: make(map[string]struct{})}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns the state and the sorted set of seen player names.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make([]string, 0, len(m.seen))
	for name := range m.seen {
		seen = append(seen, name)
	}
	sort.Strings(seen)
	return Snapshot{State: m.state, Seen: seen}
}

// SetRecording turns recording on (Armed, seen names cleared) or off (Idle).
func (m *Machine) SetRecording(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if enabled {
		m.state = Armed
		clear(m.seen)
		return
	}
	m.state = Idle
}

// Apply advances the machine with ev and returns the effects to execute,
// in order. targets may be nil.
func (m *Machine) Apply(ev event.Event, targets *Targets) []Effect {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Type {
	case event.RoundStarted:
		if m.state == Armed {
			m.state = InRound
			clear(m.seen)
		}
		return nil

	case event.RoundOver:
		effects := []Effect{{Kind: ClearQueue}, {Kind: SendReset}}
		if m.state == InRound {
			m.state = Idle
			effects = append(effects, Effect{Kind: NotifyRoundOver})
		}
		return effects

	case event.Death:
		return m.death(ev.Name, targets)
	}

	return nil
}

func (m *Machine) death(name string, targets *Targets) []Effect {
	if name == "" {
		return nil
	}

	var effects []Effect

	target, isTarget := targets.Lookup(name)

	if m.state == InRound && !isTarget {
		if _, seen := m.seen[name]; !seen {
			m.seen[name] = struct{}{}
			effects = append(effects, Effect{Kind: NotifyNewPlayer, Name: name})
		}
	}

	if isTarget {
		effects = append(effects,
			Effect{Kind: Enqueue, Number: target.Number},
			Effect{Kind: NotifyHit, Number: target.Number},
		)
	}

	return effects
}
