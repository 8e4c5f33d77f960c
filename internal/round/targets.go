package round

import "strings"

// Target maps a player display name to the number sent over OSC.
type Target struct {
	Number int    `json:"number" yaml:"number"`
	Value  string `json:"value" yaml:"value"`
}

// Targets is an immutable lookup table built from a target list.
// The zero value and a nil *Targets both match nothing.
type Targets struct {
	list    []Target
	byValue map[string]Target
}

// NewTargets copies list into a lookup table. When several targets share a
// value, the first one wins.
func NewTargets(list []Target) *Targets {
	t := &Targets{
		list:    make([]Target, len(list)),
		byValue: make(map[string]Target, len(list)),
	}
	copy(t.list, list)
	for _, target := range list {
		if _, dup := t.byValue[target.Value]; dup {
			continue
		}
		t.byValue[target.Value] = target
	}
	return t
}

// Lookup returns the target whose value equals name.
func (t *Targets) Lookup(name string) (Target, bool) {
	if t == nil {
		return Target{}, false
	}
	target, ok := t.byValue[name]
	return target, ok
}

// Len returns the number of targets in the original list.
func (t *Targets) Len() int {
	if t == nil {
		return 0
	}
	return len(t.list)
}

// List returns a copy of the original target list.
func (t *Targets) List() []Target {
	if t == nil {
		return nil
	}
	out := make([]Target, len(t.list))
	copy(out, t.list)
	return out
}

// ParseList splits a comma-separated list of names, trims each entry, drops
// empty ones and numbers the rest from 1 in order.
func ParseList(text string) []Target {
	var targets []Target
	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		targets = append(targets, Target{Number: len(targets) + 1, Value: name})
	}
	return targets
}
