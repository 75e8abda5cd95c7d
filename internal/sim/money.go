package sim

import (
	"errors"
	"math"
)

const (
	MicrosPerDollar = int64(1_000_000)

	SecondsPerYear  = float64(365 * 24 * 60 * 60)
	SecondsPerMonth = 30.42 * 24 * 60 * 60
)

var (
	ErrSessionEnded     = errors.New("session has ended")
	ErrInsuranceActive  = errors.New("an insurance policy is already active")
	ErrNoInsurance      = errors.New("no active insurance policy")
	ErrDepositActive    = errors.New("a fixed deposit is already active")
	ErrNoDeposit        = errors.New("no active fixed deposit")
	ErrHoldingActive    = errors.New("stock is already held")
	ErrNoHolding        = errors.New("stock is not held")
	ErrUnknownSymbol    = errors.New("unknown stock symbol")
	ErrInvalidShares    = errors.New("shares must be > 0")
	ErrInvalidYears     = errors.New("years must be > 0")
	ErrInvalidPrincipal = errors.New("principal must be > 0")
	ErrInvalidProfile   = errors.New("invalid player profile")
	ErrInvalidConfig    = errors.New("invalid session config")
)

func DollarsToMicros(v float64) int64 {
	return int64(math.Round(v * float64(MicrosPerDollar)))
}

func MicrosToDollars(v int64) float64 {
	return float64(v) / float64(MicrosPerDollar)
}

// scaleMicros applies a float factor to a micros amount, rounding to the
// nearest micro.
func scaleMicros(v int64, factor float64) int64 {
	return int64(math.Round(float64(v) * factor))
}
