package sim

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestSession(t *testing.T, profile Profile, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(profile, cfg, rand.New(rand.NewSource(1)), nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero time limit", func(c *Config) { c.TimeLimit = 0 }},
		{"zero game duration", func(c *Config) { c.GameDuration = 0 }},
		{"zero tick interval", func(c *Config) { c.TickInterval = 0 }},
		{"zero charge cadence", func(c *Config) { c.ChargeEveryTicks = 0 }},
		{"negative initial deposit", func(c *Config) { c.InitialDeposit = -1 }},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(&cfg)
		if _, err := NewSession(DefaultProfile(), cfg, rand.New(rand.NewSource(1)), nil); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: got %v, want ErrInvalidConfig", c.name, err)
		}
	}

	// A config with only the clocks half-filled must fail up front, not
	// divide by zero on the first tick.
	if _, err := NewSession(DefaultProfile(), Config{GameDuration: 120}, rand.New(rand.NewSource(1)), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("partial config: got %v, want ErrInvalidConfig", err)
	}
}

func TestTickAdvancesClocks(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSession(t, DefaultProfile(), cfg)

	s.Tick()
	snap := s.Snapshot()
	if snap.Tick != 1 {
		t.Fatalf("tick = %d, want 1", snap.Tick)
	}
	if snap.RealTimeElapsed != 0.1 {
		t.Fatalf("real time = %v, want 0.1", snap.RealTimeElapsed)
	}
	if want := cfg.TimeLimit - 1_314_000; snap.TimeLeft != want {
		t.Fatalf("time left = %v, want %v", snap.TimeLeft, want)
	}
}

func TestSessionEndsByTime(t *testing.T) {
	profile := DefaultProfile()
	profile.Dependents = nil
	s := newTestSession(t, profile, DefaultConfig())

	for i := 0; i < 1_200; i++ {
		s.Tick()
	}
	snap := s.Snapshot()
	if !snap.Ended || snap.EndReason != EndReasonTime {
		t.Fatalf("ended=%v reason=%q, want time expiry", snap.Ended, snap.EndReason)
	}
	if snap.Tick != 1_200 {
		t.Fatalf("tick = %d, want 1200", snap.Tick)
	}

	// The final tick expires the clock before charges run, so only 59
	// salary cycles complete.
	var salaries int
	for _, txn := range s.Transactions() {
		if txn.Category == CategorySalary {
			salaries++
		}
	}
	if salaries != 59 {
		t.Fatalf("salary cycles = %d, want 59", salaries)
	}

	// Ticking a finished session is a no-op.
	s.Tick()
	if got := s.Snapshot().Tick; got != 1_200 {
		t.Fatalf("tick after end = %d, want 1200", got)
	}
}

func TestSessionEndsByBankruptcy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialDeposit = 100 * MicrosPerDollar
	s := newTestSession(t, Profile{
		Name:                   "broke",
		MonthlySalaryThousands: 1,
		MonthlyExpensesMicros:  1_000_000 * MicrosPerDollar,
	}, cfg)

	for i := 0; i < 20; i++ {
		s.Tick()
	}
	snap := s.Snapshot()
	if !snap.Ended || snap.EndReason != EndReasonBankruptcy {
		t.Fatalf("ended=%v reason=%q, want bankruptcy at the first charge cycle", snap.Ended, snap.EndReason)
	}
	if snap.BalanceMicros > 0 {
		t.Fatalf("balance = %d, want <= 0", snap.BalanceMicros)
	}

	v, ok := s.Verdict()
	if !ok || v.Won {
		t.Fatalf("verdict = %+v ok=%v, want a loss", v, ok)
	}
}

func TestActionsAfterEndFail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameDuration = 0.1
	s := newTestSession(t, DefaultProfile(), cfg)
	s.Tick()
	if !s.Ended() {
		t.Fatal("session still running")
	}

	if _, err := s.PurchaseInsurance(10); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("PurchaseInsurance: got %v, want ErrSessionEnded", err)
	}
	if err := s.CancelInsurance(); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("CancelInsurance: got %v, want ErrSessionEnded", err)
	}
	if _, err := s.PurchaseDeposit(1_000*MicrosPerDollar, 2); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("PurchaseDeposit: got %v, want ErrSessionEnded", err)
	}
	if _, err := s.BreakDeposit(); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("BreakDeposit: got %v, want ErrSessionEnded", err)
	}
	if _, err := s.BuyStock("NOVATK", 1); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("BuyStock: got %v, want ErrSessionEnded", err)
	}
	if _, err := s.SellStock("NOVATK"); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("SellStock: got %v, want ErrSessionEnded", err)
	}
}

func TestFullRunLedgerInvariant(t *testing.T) {
	s := newTestSession(t, DefaultProfile(), DefaultConfig())

	for i := 1; i <= 1_200; i++ {
		s.Tick()
		switch i {
		case 10:
			if _, err := s.PurchaseInsurance(10); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		case 100:
			if _, err := s.PurchaseDeposit(10_000*MicrosPerDollar, 5); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		case 150:
			if _, err := s.BuyStock("NOVATK", 10); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		case 500:
			if _, err := s.SellStock("NOVATK"); err != nil {
				t.Fatalf("tick %d: %v", i, err)
			}
		}
	}

	snap := s.Snapshot()
	if !snap.Ended || snap.EndReason != EndReasonTime {
		t.Fatalf("ended=%v reason=%q, want time expiry", snap.Ended, snap.EndReason)
	}
	for _, e := range snap.LifeEvents {
		if !e.Occurred {
			t.Fatalf("life event at %v never fired", e.OccursAt)
		}
	}

	var sum int64
	for _, txn := range s.Transactions() {
		sum += txn.SignedMicros()
	}
	if sum != snap.BalanceMicros {
		t.Fatalf("entry sum %d != balance %d", sum, snap.BalanceMicros)
	}

	v, ok := s.Verdict()
	if !ok || !v.Won {
		t.Fatalf("verdict = %+v ok=%v, want a win", v, ok)
	}
	if v.EarnedMicros-v.SpentMicros != v.FinalBalanceMicros-DefaultConfig().InitialDeposit {
		t.Fatalf("earned %d - spent %d != final %d - initial deposit", v.EarnedMicros, v.SpentMicros, v.FinalBalanceMicros)
	}
}

func TestVerdictExcludesInitialDeposit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GameDuration = 0.1
	s := newTestSession(t, DefaultProfile(), cfg)
	s.Tick()

	v, ok := s.Verdict()
	if !ok {
		t.Fatal("no verdict for ended session")
	}
	if v.EarnedMicros != 0 || v.SpentMicros != 0 {
		t.Fatalf("earned=%d spent=%d before any gameplay, want 0/0", v.EarnedMicros, v.SpentMicros)
	}
	if v.FinalBalanceMicros != cfg.InitialDeposit {
		t.Fatalf("final balance = %d, want the untouched deposit %d", v.FinalBalanceMicros, cfg.InitialDeposit)
	}
}

func TestFormatTimeLeft(t *testing.T) {
	cases := []struct {
		timeLeft float64
		want     string
	}{
		{0, "0 years"},
		{-5, "0 years"},
		{10*SecondsPerYear + 0.5*SecondsPerMonth, "10 years"},
		{SecondsPerYear + 1.5*SecondsPerMonth, "1 year and 1 month"},
		{5*SecondsPerYear + 6.7*SecondsPerMonth, "5 years and 6 months"},
	}
	for _, c := range cases {
		if got := FormatTimeLeft(c.timeLeft); got != c.want {
			t.Fatalf("FormatTimeLeft(%v) = %q, want %q", c.timeLeft, got, c.want)
		}
	}
}
