package event

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Type
		wantOK bool
	}{
		{"round_started exact", "round_started", RoundStarted, true},
		{"round_over exact", "round_over", RoundOver, true},
		{"death exact", "death", Death, true},

		{"uppercase ROUND_OVER", "ROUND_OVER", RoundOver, true},
		{"mixed case Death", "Death", Death, true},

		{"leading space", " death", Death, true},
		{"trailing space", "round_over ", RoundOver, true},
		{"tab", "\tround_started\t", RoundStarted, true},

		{"unknown type", "unknown", "", false},
		{"empty string", "", "", false},
		{"marker text is not a type", "RoundOver", "", false},
		{"internal space", "round over", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseType(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseType(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTypeNames_Sorted(t *testing.T) {
	names := TypeNames()
	if len(names) != 3 {
		t.Fatalf("TypeNames() returned %d names, want 3", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("TypeNames() not sorted: %q > %q", names[i-1], names[i])
		}
	}
}

func TestConstructors(t *testing.T) {
	if ev := NewDeath("Alice"); ev.Type != Death || ev.Name != "Alice" {
		t.Errorf("NewDeath() = %+v", ev)
	}
	if ev := NewRoundOver(); ev.Type != RoundOver || ev.Name != "" {
		t.Errorf("NewRoundOver() = %+v", ev)
	}
	if ev := NewRoundStarted(); ev.Type != RoundStarted {
		t.Errorf("NewRoundStarted() = %+v", ev)
	}
}
