package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
)

type EndReason string

const (
	EndReasonNone       EndReason = ""
	EndReasonTime       EndReason = "time"
	EndReasonBankruptcy EndReason = "bankruptcy"
)

// Session is the root aggregate of one play-through. Every mutation,
// whether a tick or a user action, is serialized on one mutex so the
// ledger never observes a partial update.
type Session struct {
	mu sync.Mutex

	cfg     Config
	profile Profile
	log     *slog.Logger

	ledger    *Ledger
	household *Household
	events    []LifeEvent
	insurance *InsuranceManager
	deposits  *FixedDepositManager
	stocks    *StockManager

	timeLeft        float64 // simulated seconds remaining
	realTimeElapsed float64 // real seconds elapsed
	tickCount       int
	ended           bool
	endReason       EndReason
}

func NewSession(profile Profile, cfg Config, rng *rand.Rand, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:       cfg,
		profile:   profile,
		log:       logger,
		ledger:    NewLedger(cfg.InitialDeposit),
		household: NewHousehold(profile),
		events:    NewSchedule(rng, len(profile.Dependents) > 0),
		insurance: NewInsuranceManager(),
		deposits:  NewFixedDepositManager(),
		stocks:    NewStockManager(),
		timeLeft:  cfg.TimeLimit,
	}, nil
}

func (s *Session) elapsedSim() float64 {
	return s.cfg.TimeLimit - s.timeLeft
}

func (s *Session) finish(reason EndReason) {
	s.ended = true
	s.endReason = reason
	s.log.Info("session ended",
		"reason", string(reason),
		"balance", MicrosToDollars(s.ledger.BalanceMicros()),
		"ticks", s.tickCount)
}

// Tick advances simulated time by one fixed step and runs every
// sub-system once, in fixed order: payroll, life events, insurance,
// fixed deposit. The resulting batch is applied to the ledger in one
// atomic update. Time expiry is evaluated before charges; bankruptcy
// after.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	s.timeLeft -= s.cfg.SimSecondsPerTick()
	s.realTimeElapsed = math.Round((s.realTimeElapsed+0.1)*10) / 10
	s.tickCount++

	if s.realTimeElapsed >= s.cfg.GameDuration {
		s.finish(EndReasonTime)
		return
	}

	chargeDue := s.tickCount%s.cfg.ChargeEveryTicks == 0
	elapsedSim := s.elapsedSim()
	yearsElapsed := int(elapsedSim / SecondsPerYear)

	batch := s.household.Advance(s.cfg.SimYearsPerTick(), yearsElapsed, chargeDue)
	batch = append(batch, advanceLifeEvents(s.events, s.realTimeElapsed, s.insurance.RequestPayout)...)
	batch = append(batch, s.insurance.CheckForCharges(elapsedSim, chargeDue)...)
	batch = append(batch, s.deposits.CheckForCharges(elapsedSim)...)

	if s.ledger.Apply(batch) <= 0 {
		s.finish(EndReasonBankruptcy)
	}
}

// PurchaseInsurance opens a policy; the first premium is charged on the
// next charge cycle, so no transaction is produced here.
func (s *Session) PurchaseInsurance(years int) (InsurancePolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return InsurancePolicy{}, ErrSessionEnded
	}
	return s.insurance.Purchase(s.elapsedSim(), s.timeLeft, years)
}

func (s *Session) CancelInsurance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	return s.insurance.Cancel()
}

func (s *Session) PurchaseDeposit(principalMicros int64, years int) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Transaction{}, ErrSessionEnded
	}
	txn, err := s.deposits.Purchase(s.elapsedSim(), principalMicros, years)
	if err != nil {
		return Transaction{}, err
	}
	s.ledger.Apply([]Transaction{txn})
	return txn, nil
}

func (s *Session) BreakDeposit() (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Transaction{}, ErrSessionEnded
	}
	txn, err := s.deposits.Break()
	if err != nil {
		return Transaction{}, err
	}
	s.ledger.Apply([]Transaction{txn})
	return txn, nil
}

func (s *Session) BuyStock(symbol string, shares int64) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Transaction{}, ErrSessionEnded
	}
	txn, err := s.stocks.Buy(symbol, shares, s.realTimeElapsed)
	if err != nil {
		return Transaction{}, err
	}
	s.ledger.Apply([]Transaction{txn})
	return txn, nil
}

func (s *Session) SellStock(symbol string) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Transaction{}, ErrSessionEnded
	}
	txn, err := s.stocks.Sell(symbol, s.realTimeElapsed)
	if err != nil {
		return Transaction{}, err
	}
	s.ledger.Apply([]Transaction{txn})
	return txn, nil
}

// Snapshot is the externally observable state of a session.
type Snapshot struct {
	Profile          Profile          `json:"profile"`
	BalanceMicros    int64            `json:"balance_micros"`
	TimeLeft         float64          `json:"time_left"`
	TimeLeftReadable string           `json:"time_left_readable"`
	RealTimeElapsed  float64          `json:"real_time_elapsed"`
	Tick             int              `json:"tick"`
	Ended            bool             `json:"ended"`
	EndReason        EndReason        `json:"end_reason,omitempty"`
	Dependents       []Dependent      `json:"dependents,omitempty"`
	LifeEvents       []LifeEvent      `json:"life_events"`
	Insurance        *InsurancePolicy `json:"insurance,omitempty"`
	Deposit          *FixedDeposit    `json:"deposit,omitempty"`
	Stocks           []Quote          `json:"stocks"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]LifeEvent, len(s.events))
	copy(events, s.events)

	snap := Snapshot{
		Profile:          s.profile,
		BalanceMicros:    s.ledger.BalanceMicros(),
		TimeLeft:         s.timeLeft,
		TimeLeftReadable: FormatTimeLeft(s.timeLeft),
		RealTimeElapsed:  s.realTimeElapsed,
		Tick:             s.tickCount,
		Ended:            s.ended,
		EndReason:        s.endReason,
		Dependents:       s.household.Dependents(),
		LifeEvents:       events,
		Stocks:           s.stocks.Quotes(s.realTimeElapsed),
	}
	if policy, ok := s.insurance.Policy(); ok {
		snap.Insurance = &policy
	}
	if deposit, ok := s.deposits.Deposit(); ok {
		snap.Deposit = &deposit
	}
	return snap
}

// Transactions returns the ledger history in creation order.
func (s *Session) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Entries()
}

func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Verdict summarizes a finished game. ok is false while the session is
// still running. EarnedMicros covers gameplay income only; the initial
// deposit is excluded, so earned minus spent equals the final balance
// minus that deposit.
type Verdict struct {
	Won                bool      `json:"won"`
	Reason             EndReason `json:"reason"`
	FinalBalanceMicros int64     `json:"final_balance_micros"`
	EarnedMicros       int64     `json:"earned_micros"`
	SpentMicros        int64     `json:"spent_micros"`
}

func (s *Session) Verdict() (Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		return Verdict{}, false
	}
	v := Verdict{
		Won:                s.endReason == EndReasonTime,
		Reason:             s.endReason,
		FinalBalanceMicros: s.ledger.BalanceMicros(),
	}
	for _, t := range s.ledger.entries {
		switch {
		case t.Direction == Debit:
			v.SpentMicros += t.AmountMicros
		case t.Category != CategoryInitialDeposit:
			v.EarnedMicros += t.AmountMicros
		}
	}
	return v, true
}

// FormatTimeLeft renders remaining simulated seconds as
// "N years and M months".
func FormatTimeLeft(timeLeft float64) string {
	if timeLeft < 0 {
		timeLeft = 0
	}
	years := int(math.Floor(timeLeft / SecondsPerYear))
	months := int(math.Floor((timeLeft - float64(years)*SecondsPerYear) / SecondsPerMonth))

	out := fmt.Sprintf("%d years", years)
	if years == 1 {
		out = "1 year"
	}
	switch {
	case months == 1:
		out += " and 1 month"
	case months != 0:
		out += fmt.Sprintf(" and %d months", months)
	}
	return out
}
