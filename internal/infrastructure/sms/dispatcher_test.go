package sms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(_ context.Context, phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, phone+":"+code)
	return nil
}

func (r *recordingSender) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sent))
	copy(out, r.sent)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestDispatcher_DeliversAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &recordingSender{}
	d := NewDispatcher(4, sender, zerolog.Nop())
	d.Start(ctx)

	if err := d.Send(ctx, "5550100", "111111"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := d.Send(ctx, "5550101", "222222"); err != nil {
		t.Fatalf("send: %v", err)
	}

	waitFor(t, func() bool { return len(sender.snapshot()) == 2 })
}

func TestDispatcher_PerPhoneOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &recordingSender{}
	d := NewDispatcher(4, sender, zerolog.Nop())
	d.Start(ctx)

	codes := []string{"000001", "000002", "000003", "000004", "000005"}
	for _, code := range codes {
		if err := d.Send(ctx, "5550100", code); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	waitFor(t, func() bool { return len(sender.snapshot()) == len(codes) })

	got := sender.snapshot()
	for i, code := range codes {
		want := "5550100:" + code
		if got[i] != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i])
		}
	}
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sender := &recordingSender{}
	d := NewDispatcher(1, sender, zerolog.Nop())
	d.Start(ctx)

	if err := d.Send(ctx, "5550100", "111111"); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitFor(t, func() bool { return len(sender.snapshot()) == 1 })

	cancel()
	// Give the worker a moment to observe cancellation before enqueueing more.
	time.Sleep(20 * time.Millisecond)

	_ = d.Send(ctx, "5550100", "222222")
	time.Sleep(50 * time.Millisecond)

	if n := len(sender.snapshot()); n != 1 {
		t.Fatalf("expected no delivery after cancel, got %d", n)
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &recordingSender{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
