package sim

// InsurancePolicy covers every life event that fires before its expiry;
// coverage is not consumed by a payout.
type InsurancePolicy struct {
	MonthlyPremiumMicros int64   `json:"monthly_premium_micros"`
	CoverageYears        int     `json:"coverage_years"`
	ExpiresAtSim         float64 `json:"expires_at_sim"` // simulated-seconds timestamp
}

// MonthlyPremiumMicros prices a policy from two independent additive
// bands: one on the coverage length requested, one on the simulated
// years left in the session. Shorter sessions left means pricier cover.
func MonthlyPremiumMicros(coverageYears, yearsRemaining int) int64 {
	var coverage int64
	switch {
	case coverageYears <= 5:
		coverage = 200
	case coverageYears <= 10:
		coverage = 350
	case coverageYears <= 20:
		coverage = 600
	default:
		coverage = 900
	}

	var remaining int64
	switch {
	case yearsRemaining >= 40:
		remaining = 100
	case yearsRemaining >= 25:
		remaining = 250
	case yearsRemaining >= 10:
		remaining = 400
	default:
		remaining = 600
	}

	return (coverage + remaining) * MicrosPerDollar
}

// InsuranceManager is a three-state machine: no policy, active, back to
// no policy via cancellation or expiry.
type InsuranceManager struct {
	policy *InsurancePolicy
}

func NewInsuranceManager() *InsuranceManager {
	return &InsuranceManager{}
}

func (m *InsuranceManager) Active() bool {
	return m.policy != nil
}

func (m *InsuranceManager) Policy() (InsurancePolicy, bool) {
	if m.policy == nil {
		return InsurancePolicy{}, false
	}
	return *m.policy, true
}

func (m *InsuranceManager) Purchase(elapsedSim, timeLeftSim float64, years int) (InsurancePolicy, error) {
	if m.policy != nil {
		return InsurancePolicy{}, ErrInsuranceActive
	}
	if years <= 0 {
		return InsurancePolicy{}, ErrInvalidYears
	}
	m.policy = &InsurancePolicy{
		MonthlyPremiumMicros: MonthlyPremiumMicros(years, int(timeLeftSim/SecondsPerYear)),
		CoverageYears:        years,
		ExpiresAtSim:         elapsedSim + float64(years)*SecondsPerYear,
	}
	return *m.policy, nil
}

// Cancel drops the active policy with no refund.
func (m *InsuranceManager) Cancel() error {
	if m.policy == nil {
		return ErrNoInsurance
	}
	m.policy = nil
	return nil
}

// CheckForCharges clears an expired policy, emitting nothing further for
// it; an active policy is charged its premium once per charge cycle.
func (m *InsuranceManager) CheckForCharges(elapsedSim float64, chargeDue bool) []Transaction {
	if m.policy == nil {
		return nil
	}
	if elapsedSim >= m.policy.ExpiresAtSim {
		m.policy = nil
		return nil
	}
	if !chargeDue {
		return nil
	}
	return []Transaction{newTransaction(
		"Insurance Premium",
		CategoryInsurance,
		Debit,
		m.policy.MonthlyPremiumMicros,
		"",
	)}
}

// RequestPayout is a pure capability check: it reports whether an active
// policy can absorb an event firing now. The caller zeroes the event's
// cost when true.
func (m *InsuranceManager) RequestPayout() bool {
	return m.policy != nil
}
