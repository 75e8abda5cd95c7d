package sim

import (
	"math/rand"
	"testing"
	"time"
)

func TestRunnerDrivesSessionToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameDuration = 0.3
	cfg.TickInterval = time.Millisecond
	s, err := NewSession(DefaultProfile(), cfg, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	ended := make(chan *Session, 1)
	r := NewRunner(s, cfg.TickInterval, func(s *Session) { ended <- s })
	r.Start()
	defer r.Stop()

	select {
	case got := <-ended:
		if got != s {
			t.Fatal("onEnd fired with a different session")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end in time")
	}

	if !s.Ended() {
		t.Fatal("session not marked ended")
	}
	if v, ok := s.Verdict(); !ok || v.Reason != EndReasonTime {
		t.Fatalf("verdict = %+v ok=%v, want time expiry", v, ok)
	}
}

func TestRunnerPauseHoldsState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickInterval = time.Millisecond
	s, err := NewSession(DefaultProfile(), cfg, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	r := NewRunner(s, cfg.TickInterval, nil)
	r.Pause()
	r.Start()
	defer r.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := s.Snapshot().Tick; got != 0 {
		t.Fatalf("paused runner delivered %d ticks", got)
	}

	r.Resume()
	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Tick == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no ticks after resume")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
