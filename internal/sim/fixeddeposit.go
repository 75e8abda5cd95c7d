package sim

import (
	"fmt"
	"math"
)

// FixedDeposit locks a principal away until expiry. The principal grows
// in place by a yearly compounding step; breaking early forfeits the
// entire grown principal and charges a penalty fee on top.
type FixedDeposit struct {
	PrincipalMicros int64   `json:"principal_micros"` // grown in place
	RatePct         int     `json:"rate_pct"`
	Years           int     `json:"years"`
	PurchasedAtSim  float64 `json:"purchased_at_sim"`
	ExpiresAtSim    float64 `json:"expires_at_sim"`

	yearsGrown int
}

// DepositRatePct maps the initial principal to its annual rate band.
func DepositRatePct(principalMicros int64) int {
	switch {
	case principalMicros < 10_000*MicrosPerDollar:
		return 3
	case principalMicros < 50_000*MicrosPerDollar:
		return 4
	default:
		return 5
	}
}

// breakFeeMicros is keyed by the grown principal at break time.
func breakFeeMicros(grownPrincipalMicros int64) int64 {
	switch {
	case grownPrincipalMicros < 10_000*MicrosPerDollar:
		return 250 * MicrosPerDollar
	case grownPrincipalMicros < 50_000*MicrosPerDollar:
		return 500 * MicrosPerDollar
	default:
		return 1_000 * MicrosPerDollar
	}
}

type FixedDepositManager struct {
	deposit *FixedDeposit
}

func NewFixedDepositManager() *FixedDepositManager {
	return &FixedDepositManager{}
}

func (m *FixedDepositManager) Active() bool {
	return m.deposit != nil
}

func (m *FixedDepositManager) Deposit() (FixedDeposit, bool) {
	if m.deposit == nil {
		return FixedDeposit{}, false
	}
	return *m.deposit, true
}

// Purchase debits the principal immediately and opens the deposit.
func (m *FixedDepositManager) Purchase(elapsedSim float64, principalMicros int64, years int) (Transaction, error) {
	if m.deposit != nil {
		return Transaction{}, ErrDepositActive
	}
	if principalMicros <= 0 {
		return Transaction{}, ErrInvalidPrincipal
	}
	if years <= 0 {
		return Transaction{}, ErrInvalidYears
	}
	m.deposit = &FixedDeposit{
		PrincipalMicros: principalMicros,
		RatePct:         DepositRatePct(principalMicros),
		Years:           years,
		PurchasedAtSim:  elapsedSim,
		ExpiresAtSim:    elapsedSim + float64(years)*SecondsPerYear,
	}
	return newTransaction(
		"Fixed Deposit",
		CategoryFixedDeposit,
		Debit,
		principalMicros,
		fmt.Sprintf("Opened a %d-year fixed deposit at %d%% per annum.", years, m.deposit.RatePct),
	), nil
}

// CheckForCharges applies any pending yearly growth steps and settles
// the deposit on expiry. Growth is driven by whole simulated years
// elapsed since purchase, never by tick count, so two sessions with
// different tick granularity but equal elapsed time grow identically.
func (m *FixedDepositManager) CheckForCharges(elapsedSim float64) []Transaction {
	if m.deposit == nil {
		return nil
	}
	d := m.deposit

	target := int(math.Floor((elapsedSim - d.PurchasedAtSim) / SecondsPerYear))
	if target > d.Years {
		target = d.Years
	}
	for d.yearsGrown < target {
		d.PrincipalMicros = scaleMicros(d.PrincipalMicros, float64(100+d.RatePct)/100)
		d.yearsGrown++
	}

	if elapsedSim < d.ExpiresAtSim {
		return nil
	}
	m.deposit = nil
	return []Transaction{newTransaction(
		"Fixed Deposit Matured",
		CategoryFixedDeposit,
		Credit,
		d.PrincipalMicros,
		fmt.Sprintf("Your fixed deposit matured after %d years.", d.Years),
	)}
}

// Break closes the deposit early. The grown principal is forfeited in
// full and a tiered penalty fee is charged; nothing is credited back.
func (m *FixedDepositManager) Break() (Transaction, error) {
	if m.deposit == nil {
		return Transaction{}, ErrNoDeposit
	}
	fee := breakFeeMicros(m.deposit.PrincipalMicros)
	m.deposit = nil
	return newTransaction(
		"Fixed Deposit Broken",
		CategoryFixedDeposit,
		Debit,
		fee,
		"Penalty fee for breaking a fixed deposit before maturity.",
	), nil
}
