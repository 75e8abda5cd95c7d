package sim

import "math"

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
)

// trendPhase holds one segment of an instrument's piecewise schedule:
// the trend in force until the given real-seconds breakpoint.
type trendPhase struct {
	until        float64
	direction    TrendDirection
	magnitudePct int64
}

// Instrument is one of the two fixed tradables. Direction and magnitude
// are derived deterministically from elapsed time via the schedule.
type Instrument struct {
	Symbol          string
	Name            string
	BasePriceMicros int64

	schedule []trendPhase

	direction    TrendDirection
	magnitudePct int64
	held         bool
	shares       int64
}

// Quote is the observable per-instrument state.
type Quote struct {
	Symbol               string         `json:"symbol"`
	Name                 string         `json:"name"`
	EffectivePriceMicros int64          `json:"effective_price_micros"`
	Direction            TrendDirection `json:"direction"`
	MagnitudePct         int64          `json:"magnitude_pct"`
	Held                 bool           `json:"held"`
	Shares               int64          `json:"shares"`
}

// EffectivePriceMicros multiplies the base price by (100+magnitude)/100
// using the magnitude alone; a downward trend still inflates the
// effective price. Intentional: the pricing quirk is part of the game.
func (i *Instrument) EffectivePriceMicros() int64 {
	return scaleMicros(i.BasePriceMicros, float64(100+i.magnitudePct)/100)
}

func (i *Instrument) refreshTrend(elapsed float64) {
	for _, phase := range i.schedule {
		if elapsed < phase.until {
			i.direction = phase.direction
			i.magnitudePct = phase.magnitudePct
			return
		}
	}
	last := i.schedule[len(i.schedule)-1]
	i.direction = last.direction
	i.magnitudePct = last.magnitudePct
}

type StockManager struct {
	instruments []*Instrument
}

// NewStockManager builds the two fixed instruments with their hardcoded
// trend schedules.
func NewStockManager() *StockManager {
	return &StockManager{instruments: []*Instrument{
		{
			Symbol:          "NOVATK",
			Name:            "Novatek Industries",
			BasePriceMicros: 150 * MicrosPerDollar,
			schedule: []trendPhase{
				{until: 30, direction: TrendUp, magnitudePct: 5},
				{until: 55, direction: TrendDown, magnitudePct: 12},
				{until: 80, direction: TrendUp, magnitudePct: 20},
				{until: math.Inf(1), direction: TrendDown, magnitudePct: 8},
			},
		},
		{
			Symbol:          "HARVST",
			Name:            "Harvest & Gold",
			BasePriceMicros: 85 * MicrosPerDollar,
			schedule: []trendPhase{
				{until: 25, direction: TrendDown, magnitudePct: 4},
				{until: 60, direction: TrendUp, magnitudePct: 9},
				{until: 95, direction: TrendDown, magnitudePct: 15},
				{until: math.Inf(1), direction: TrendUp, magnitudePct: 11},
			},
		},
	}}
}

// RefreshTrends recomputes both instruments' direction and magnitude
// from the schedule. Idempotent; touches nothing else.
func (m *StockManager) RefreshTrends(elapsed float64) {
	for _, inst := range m.instruments {
		inst.refreshTrend(elapsed)
	}
}

func (m *StockManager) Quotes(elapsed float64) []Quote {
	m.RefreshTrends(elapsed)
	out := make([]Quote, 0, len(m.instruments))
	for _, inst := range m.instruments {
		out = append(out, Quote{
			Symbol:               inst.Symbol,
			Name:                 inst.Name,
			EffectivePriceMicros: inst.EffectivePriceMicros(),
			Direction:            inst.direction,
			MagnitudePct:         inst.magnitudePct,
			Held:                 inst.held,
			Shares:               inst.shares,
		})
	}
	return out
}

func (m *StockManager) find(symbol string) *Instrument {
	for _, inst := range m.instruments {
		if inst.Symbol == symbol {
			return inst
		}
	}
	return nil
}

// Buy debits shares at the current effective price and opens the
// holding. One open holding per instrument.
func (m *StockManager) Buy(symbol string, shares int64, elapsed float64) (Transaction, error) {
	inst := m.find(symbol)
	if inst == nil {
		return Transaction{}, ErrUnknownSymbol
	}
	if shares <= 0 {
		return Transaction{}, ErrInvalidShares
	}
	if inst.held {
		return Transaction{}, ErrHoldingActive
	}
	m.RefreshTrends(elapsed)
	cost := shares * inst.EffectivePriceMicros()
	inst.held = true
	inst.shares = shares
	return newTransaction(
		"Bought "+inst.Name,
		CategoryStock,
		Debit,
		cost,
		"",
	), nil
}

// Sell credits the held shares at the current effective price and clears
// the holding.
func (m *StockManager) Sell(symbol string, elapsed float64) (Transaction, error) {
	inst := m.find(symbol)
	if inst == nil {
		return Transaction{}, ErrUnknownSymbol
	}
	if !inst.held {
		return Transaction{}, ErrNoHolding
	}
	m.RefreshTrends(elapsed)
	proceeds := inst.shares * inst.EffectivePriceMicros()
	inst.held = false
	inst.shares = 0
	return newTransaction(
		"Sold "+inst.Name,
		CategoryStock,
		Credit,
		proceeds,
		"",
	), nil
}
