package roundwatch

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestParseNotificationKind(t *testing.T) {
	tests := []struct {
		input  string
		want   NotificationKind
		wantOK bool
	}{
		{"log-hit", NotifyLogHit, true},
		{"RESET-HIT", NotifyResetHit, true},
		{" round-over ", NotifyRoundOver, true},
		{"recording-new-player", NotifyNewPlayer, true},
		{"new-player", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNotificationKind(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseNotificationKind(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNotificationKindNames(t *testing.T) {
	want := []string{"log-hit", "recording-new-player", "reset-hit", "round-over"}
	if got := NotificationKindNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("NotificationKindNames() = %v, want %v", got, want)
	}
}

func TestMultiNotifier(t *testing.T) {
	var order []string
	a := NotifierFunc(func(n Notification) { order = append(order, "a:"+string(n.Kind)) })
	b := NotifierFunc(func(n Notification) { order = append(order, "b:"+string(n.Kind)) })

	MultiNotifier(a, nil, b).Notify(Notification{Kind: NotifyRoundOver})

	want := []string{"a:round-over", "b:round-over"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestFilterNotifier(t *testing.T) {
	all := []NotificationKind{NotifyLogHit, NotifyResetHit, NotifyRoundOver, NotifyNewPlayer}

	tests := []struct {
		name    string
		include []NotificationKind
		exclude []NotificationKind
		want    []NotificationKind
	}{
		{"no filter", nil, nil, all},
		{"include only", []NotificationKind{NotifyLogHit}, nil, []NotificationKind{NotifyLogHit}},
		{"exclude only", nil, []NotificationKind{NotifyResetHit}, []NotificationKind{NotifyLogHit, NotifyRoundOver, NotifyNewPlayer}},
		{
			"exclude wins",
			[]NotificationKind{NotifyLogHit, NotifyResetHit},
			[]NotificationKind{NotifyResetHit},
			[]NotificationKind{NotifyLogHit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []NotificationKind
			sink := NotifierFunc(func(n Notification) { got = append(got, n.Kind) })
			f := FilterNotifier(sink, tt.include, tt.exclude)
			for _, k := range all {
				f.Notify(Notification{Kind: k})
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("forwarded = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompiledFilter_NilAllowsAll(t *testing.T) {
	var f *compiledFilter
	if !f.Allows(NotifyLogHit) {
		t.Error("nil filter rejected a kind")
	}
	if newCompiledFilter(nil, nil) != nil {
		t.Error("newCompiledFilter(nil, nil) != nil")
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	n := LogNotifier(logger)
	n.Notify(Notification{Kind: NotifyLogHit, Number: 3, SessionID: "s1"})
	n.Notify(Notification{Kind: NotifyNewPlayer, Name: "Bob"})

	out := buf.String()
	for _, want := range []string{"kind=log-hit", "number=3", "session=s1", "kind=recording-new-player", "name=Bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
