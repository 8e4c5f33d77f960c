package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vrclog/roundwatch/pkg/roundwatch"
)

// ValidFormats lists the accepted --format values.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

func checkFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", format)
	}
	return nil
}

// OutputJSON writes v as a single JSON line.
func OutputJSON(v any, w io.Writer) error {
	return json.NewEncoder(w).Encode(v)
}

// OutputPretty writes a notification in human-readable form.
func OutputPretty(n roundwatch.Notification, w io.Writer) error {
	ts := n.Time.Local().Format("15:04:05")

	var err error
	switch n.Kind {
	case roundwatch.NotifyLogHit:
		_, err = fmt.Fprintf(w, "[%s] # hit %d\n", ts, n.Number)
	case roundwatch.NotifyResetHit:
		_, err = fmt.Fprintf(w, "[%s] ~ reset\n", ts)
	case roundwatch.NotifyRoundOver:
		_, err = fmt.Fprintf(w, "[%s] = round over\n", ts)
	case roundwatch.NotifyNewPlayer:
		_, err = fmt.Fprintf(w, "[%s] + new player: %s\n", ts, n.Name)
	default:
		_, err = fmt.Fprintf(w, "[%s] ? %s\n", ts, n.Kind)
	}
	return err
}

// OutputNotification writes n in the given format.
func OutputNotification(format string, n roundwatch.Notification, w io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(n, w)
	case "pretty":
		return OutputPretty(n, w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
