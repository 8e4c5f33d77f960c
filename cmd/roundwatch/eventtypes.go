package main

import (
	"fmt"
	"strings"

	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

// ValidKindNames returns a sorted list of valid notification kind names.
// Delegates to roundwatch.NotificationKindNames() as the single source of truth.
func ValidKindNames() []string {
	return roundwatch.NotificationKindNames()
}

// NormalizeKinds converts CLI string values to a roundwatch.NotificationKind
// slice. It handles case-insensitivity, whitespace trimming, and duplicate
// removal.
func NormalizeKinds(values []string) ([]roundwatch.NotificationKind, error) {
	if len(values) == 0 {
		return nil, nil
	}

	result := make([]roundwatch.NotificationKind, 0, len(values))
	seen := make(map[roundwatch.NotificationKind]struct{})

	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			return nil, fmt.Errorf("empty notification kind provided (input: %q); valid kinds: %s", raw, strings.Join(ValidKindNames(), ", "))
		}

		k, ok := roundwatch.ParseNotificationKind(raw)
		if !ok {
			return nil, fmt.Errorf("unknown notification kind %q (valid: %s)", raw, strings.Join(ValidKindNames(), ", "))
		}

		if _, dup := seen[k]; dup {
			continue // ignore duplicates silently
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}

	return result, nil
}

// RejectOverlap returns an error if any kind is in both includes and excludes.
func RejectOverlap(includes, excludes []roundwatch.NotificationKind) error {
	ex := make(map[roundwatch.NotificationKind]struct{}, len(excludes))
	for _, k := range excludes {
		ex[k] = struct{}{}
	}
	for _, k := range includes {
		if _, ok := ex[k]; ok {
			return fmt.Errorf("notification kind %q cannot be both included and excluded", k)
		}
	}
	return nil
}
