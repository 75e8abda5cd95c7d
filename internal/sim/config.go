package sim

import (
	"fmt"
	"math"
	"time"
)

// Config fixes the time-compression constants for one session. The
// defaults compress a 50-year timeline into a 120-second game driven at
// ten ticks per second.
type Config struct {
	TimeLimit        float64       // total simulated seconds in a session
	GameDuration     float64       // real seconds a session lasts
	TickInterval     time.Duration // real time between ticks
	ChargeEveryTicks int           // one "monthly" charge cycle per this many ticks
	InitialDeposit   int64         // micros credited at session start
}

func DefaultConfig() Config {
	return Config{
		TimeLimit:        50 * 365 * 24 * 60 * 60,
		GameDuration:     120,
		TickInterval:     100 * time.Millisecond,
		ChargeEveryTicks: 20,
		InitialDeposit:   10_000 * MicrosPerDollar,
	}
}

// Validate rejects configs the tick arithmetic cannot run on. A zero
// ChargeEveryTicks would divide by zero; zero clocks produce NaN time.
func (c Config) Validate() error {
	if c.TimeLimit <= 0 {
		return fmt.Errorf("%w: time limit must be > 0", ErrInvalidConfig)
	}
	if c.GameDuration <= 0 {
		return fmt.Errorf("%w: game duration must be > 0", ErrInvalidConfig)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be > 0", ErrInvalidConfig)
	}
	if c.ChargeEveryTicks <= 0 {
		return fmt.Errorf("%w: charge cadence must be > 0 ticks", ErrInvalidConfig)
	}
	if c.InitialDeposit < 0 {
		return fmt.Errorf("%w: initial deposit must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// SimSecondsPerTick is the fixed simulated-time step, rounded to three
// decimal places so the per-tick deduction cannot amplify drift over a
// session.
func (c Config) SimSecondsPerTick() float64 {
	return math.Round(c.TimeLimit/c.GameDuration/10*1000) / 1000
}

func (c Config) SimYearsPerTick() float64 {
	return c.SimSecondsPerTick() / SecondsPerYear
}
