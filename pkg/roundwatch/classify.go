package roundwatch

import "github.com/vrclog/roundwatch/internal/classifier"

// ClassifyLine returns the round events found in a single log line, in
// detection order. Lines without markers yield nil.
//
// Example:
//
//	line := "2025.01.15 21:06:02 Log        -  [DEATH][Alice] Alice was killed"
//	for _, ev := range roundwatch.ClassifyLine(line) {
//	    fmt.Println(ev.Type, ev.Name) // death Alice
//	}
func ClassifyLine(line string) []Event {
	return classifier.Classify(line)
}
