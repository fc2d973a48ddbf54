package notifier

import (
	"context"
	"sync/atomic"
	"testing"

	"hostpulse/internal/config"
	"hostpulse/internal/kafka"
)

type recordingNotifier struct {
	calls atomic.Int32
	ok    bool
	last  string
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Send(_ context.Context, text string) bool {
	r.calls.Add(1)
	r.last = text
	return r.ok
}

type panickingNotifier struct{}

func (panickingNotifier) Name() string                          { return "panicking" }
func (panickingNotifier) Send(_ context.Context, _ string) bool { panic("boom") }

func TestNopNeverDelivers(t *testing.T) {
	var n Notifier = Nop{}
	if n.Send(context.Background(), "x") {
		t.Error("Nop.Send() should return false")
	}
	if !IsNop(n) || !IsNop(nil) {
		t.Error("IsNop() should be true for Nop and nil")
	}
	if IsNop(&recordingNotifier{}) {
		t.Error("IsNop() should be false for real sinks")
	}
}

func TestDeliver(t *testing.T) {
	r := &recordingNotifier{ok: true}
	if !Deliver(context.Background(), r, KindAlert, "alert text") {
		t.Fatal("Deliver() returned false")
	}
	if r.calls.Load() != 1 || r.last != "alert text" {
		t.Errorf("unexpected calls=%d last=%q", r.calls.Load(), r.last)
	}

	r.ok = false
	if Deliver(context.Background(), r, KindStatus, "status") {
		t.Error("Deliver() should report sink failure")
	}
}

func TestDeliver_SkipsNop(t *testing.T) {
	if Deliver(context.Background(), Nop{}, KindStartup, "x") {
		t.Error("Deliver() through Nop should be false")
	}
}

func TestDeliver_RecoversPanic(t *testing.T) {
	if Deliver(context.Background(), panickingNotifier{}, KindAlert, "x") {
		t.Error("panicking sink should count as failed delivery")
	}
}

func TestNew_Selection(t *testing.T) {
	cfg := config.Default()
	n, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, ok := n.(Nop); !ok {
		t.Errorf("expected Nop without sinks, got %T", n)
	}

	cfg.Telegram.Enabled = true
	n, err = New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, ok := n.(*Telegram); !ok {
		t.Errorf("expected *Telegram, got %T", n)
	}

	cfg.Telegram.Enabled = false
	cfg.Kafka.Enabled = true
	n, err = New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	p, ok := n.(*kafka.Producer)
	if !ok {
		t.Fatalf("expected *kafka.Producer, got %T", n)
	}
	p.Close()

	cfg.Kafka.Topic = ""
	if _, err := New(cfg); err == nil {
		t.Error("expected error for kafka sink without topic")
	}
}
