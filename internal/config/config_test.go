package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vrclog/roundwatch/internal/round"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.OSC.Host != "127.0.0.1" || cfg.OSC.Port != 9000 {
		t.Errorf("OSC endpoint = %s:%d, want 127.0.0.1:9000", cfg.OSC.Host, cfg.OSC.Port)
	}
	if got := cfg.Dispatch.MinInterval.Duration(); got != 500*time.Millisecond {
		t.Errorf("MinInterval = %v, want 500ms", got)
	}
	if got := cfg.Dispatch.PollInterval.Duration(); got != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want 100ms", got)
	}
}

func TestParse_OverridesKeepDefaults(t *testing.T) {
	data := []byte(`
log_dir: /logs
poll: true
osc:
  port: 9001
dispatch:
  min_interval: 750ms
targets:
  - number: 1
    value: Alice
  - number: 2
    value: Bob
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.LogDir != "/logs" || !cfg.Poll {
		t.Errorf("LogDir/Poll = %q/%v", cfg.LogDir, cfg.Poll)
	}
	if cfg.OSC.Port != 9001 {
		t.Errorf("OSC.Port = %d, want 9001", cfg.OSC.Port)
	}
	if cfg.OSC.Host != "127.0.0.1" {
		t.Errorf("OSC.Host = %q, want default", cfg.OSC.Host)
	}
	if got := cfg.Dispatch.MinInterval.Duration(); got != 750*time.Millisecond {
		t.Errorf("MinInterval = %v, want 750ms", got)
	}
	if got := cfg.Dispatch.PollInterval.Duration(); got != 100*time.Millisecond {
		t.Errorf("PollInterval = %v, want default 100ms", got)
	}

	want := []round.Target{{Number: 1, Value: "Alice"}, {Number: 2, Value: "Bob"}}
	if !reflect.DeepEqual(cfg.Targets, want) {
		t.Errorf("Targets = %+v, want %+v", cfg.Targets, want)
	}
}

func TestParse_TargetList(t *testing.T) {
	cfg, err := Parse([]byte(`target_list: " Alice, ,Bob ,Carol,"`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []round.Target{
		{Number: 1, Value: "Alice"},
		{Number: 2, Value: "Bob"},
		{Number: 3, Value: "Carol"},
	}
	if !reflect.DeepEqual(cfg.Targets, want) {
		t.Errorf("Targets = %+v, want %+v", cfg.Targets, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "osc: [", "failed to parse YAML"},
		{"bad duration", "dispatch:\n  min_interval: soon", "invalid duration"},
		{"poll too fast", "dispatch:\n  poll_interval: 1ms", "poll_interval must be at least"},
		{"negative interval", "dispatch:\n  min_interval: -1s", "min_interval must be non-negative"},
		{"bad osc port", "osc:\n  port: 0", "osc port"},
		{"bad osc address", "osc:\n  reset_address: reset", "reset address"},
		{"bad server port", "server:\n  port: 99999", "server.port"},
		{"negative max connections", "server:\n  max_connections: -1", "max_connections"},
		{"empty target", "targets:\n  - number: 1\n    value: ''", "value is required"},
		{"duplicate number", "targets:\n  - {number: 1, value: A}\n  - {number: 1, value: B}", "duplicate number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundwatch.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
