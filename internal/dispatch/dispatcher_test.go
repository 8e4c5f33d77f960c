package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingSender records each number together with the dispatcher's send
// stamp taken for it.
type recordingSender struct {
	d   *Dispatcher
	err error

	mu      sync.Mutex
	numbers []int
	stamps  []time.Time
}

func (s *recordingSender) SendNumber(_ context.Context, number int) error {
	s.d.mu.Lock()
	stamp := s.d.lastSend
	s.d.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbers = append(s.numbers, number)
	s.stamps = append(s.stamps, stamp)
	return s.err
}

func (s *recordingSender) snapshot() ([]int, []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.numbers...), append([]time.Time(nil), s.stamps...)
}

func newTestDispatcher(t *testing.T, minInterval time.Duration) (*Dispatcher, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	d, err := New(sender, Config{MinInterval: minInterval, PollInterval: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	sender.d = d
	return d, sender
}

func waitForSends(t *testing.T, s *recordingSender, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if got, _ := s.snapshot(); len(got) >= n {
			return
		}
		select {
		case <-deadline:
			got, _ := s.snapshot()
			t.Fatalf("timeout waiting for %d sends, got %v", n, got)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Error("New(nil sender) expected error")
	}
	if _, err := New(&recordingSender{}, Config{MinInterval: time.Second}); err == nil {
		t.Error("New() with zero poll interval expected error")
	}
	if _, err := New(&recordingSender{}, Config{MinInterval: -1, PollInterval: time.Millisecond}); err == nil {
		t.Error("New() with negative min interval expected error")
	}
}

func TestNext_Gate(t *testing.T) {
	d, _ := newTestDispatcher(t, 500*time.Millisecond)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d.Enqueue(1)
	d.Enqueue(2)

	// Never sent: first item goes immediately.
	if n, ok := d.next(base); !ok || n != 1 {
		t.Fatalf("next(base) = %d, %v; want 1, true", n, ok)
	}
	// Within the interval: blocked.
	if _, ok := d.next(base.Add(499 * time.Millisecond)); ok {
		t.Fatal("next() sent before min interval elapsed")
	}
	// Exactly the interval: allowed.
	if n, ok := d.next(base.Add(500 * time.Millisecond)); !ok || n != 2 {
		t.Fatalf("next(+500ms) = %d, %v; want 2, true", n, ok)
	}
}

func TestNext_IdleDoesNotBankAllowance(t *testing.T) {
	d, _ := newTestDispatcher(t, 500*time.Millisecond)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	d.Enqueue(1)
	d.next(base)

	// Empty queue polls must not move the stamp.
	for i := 1; i <= 10; i++ {
		if _, ok := d.next(base.Add(time.Duration(i) * 100 * time.Millisecond)); ok {
			t.Fatal("next() on empty queue returned an item")
		}
	}
	if !d.lastSend.Equal(base) {
		t.Errorf("lastSend = %v, want %v", d.lastSend, base)
	}

	d.Enqueue(2)
	d.Enqueue(3)
	now := base.Add(2 * time.Second)
	if n, ok := d.next(now); !ok || n != 2 {
		t.Fatalf("next() = %d, %v; want 2, true", n, ok)
	}
	if _, ok := d.next(now.Add(100 * time.Millisecond)); ok {
		t.Error("idle period banked send allowance")
	}
}

func TestResetTimer(t *testing.T) {
	d, _ := newTestDispatcher(t, time.Hour)
	base := time.Now()

	d.Enqueue(1)
	d.Enqueue(2)
	d.next(base)

	if _, ok := d.next(base.Add(time.Second)); ok {
		t.Fatal("next() sent inside the interval")
	}

	d.ResetTimer()
	if n, ok := d.next(base.Add(time.Second)); !ok || n != 2 {
		t.Errorf("after ResetTimer next() = %d, %v; want 2, true", n, ok)
	}
}

func TestClear(t *testing.T) {
	d, _ := newTestDispatcher(t, time.Millisecond)
	d.Enqueue(1)
	d.Enqueue(2)
	d.Clear()

	if got := d.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
	if _, ok := d.next(time.Now()); ok {
		t.Error("next() returned an item after Clear")
	}
}

func TestRun_FIFOAndMinInterval(t *testing.T) {
	const minInterval = 40 * time.Millisecond
	d, sender := newTestDispatcher(t, minInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	want := []int{5, 3, 9, 1, 7}
	for _, n := range want {
		d.Enqueue(n)
	}

	waitForSends(t, sender, len(want), 2*time.Second)

	numbers, stamps := sender.snapshot()
	for i, n := range want {
		if numbers[i] != n {
			t.Fatalf("send order = %v, want %v", numbers, want)
		}
	}
	for i := 1; i < len(stamps); i++ {
		if gap := stamps[i].Sub(stamps[i-1]); gap < minInterval {
			t.Errorf("gap between send %d and %d = %v, want >= %v", i-1, i, gap, minInterval)
		}
	}
}

func TestRun_SendErrorDropsItem(t *testing.T) {
	d, sender := newTestDispatcher(t, time.Millisecond)
	sender.err = errors.New("connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Enqueue(1)
	d.Enqueue(2)
	waitForSends(t, sender, 2, time.Second)

	// Failed items are never retried.
	time.Sleep(50 * time.Millisecond)
	numbers, _ := sender.snapshot()
	if len(numbers) != 2 || numbers[0] != 1 || numbers[1] != 2 {
		t.Errorf("sends = %v, want [1 2]", numbers)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	d, _ := newTestDispatcher(t, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
