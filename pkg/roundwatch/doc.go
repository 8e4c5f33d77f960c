// Package roundwatch watches a live VRChat log and turns round and death
// markers into rate-limited OSC parameter updates.
//
// A Supervisor owns one long-lived dispatcher and at most one tailer at a
// time. Each StartWatch call tears down the previous tailer before the next
// one begins, so lines from two log sessions are never interleaved.
//
// # Basic Usage
//
//	sup, err := roundwatch.NewSupervisor(
//	    roundwatch.WithLogger(logger),
//	    roundwatch.WithNotifier(roundwatch.LogNotifier(logger)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sup.Close()
//
//	if err := sup.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := sup.StartWatch(roundwatch.ParseTargets("Alice, Bob")); err != nil {
//	    log.Fatal(err)
//	}
//	sup.ToggleRecording(true)
//
// A death of "Alice" then queues number 1 for the
// /avatar/parameters/Lunatic_Number parameter, and every RoundOver line
// drops pending numbers and sends /avatar/parameters/Lunatic_Reset.
//
// # Recording
//
// While recording is on, the first death of each non-target player inside
// a round is reported as a recording-new-player notification. Recording
// ends by itself when that round is over.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with VRChat Inc.
package roundwatch
