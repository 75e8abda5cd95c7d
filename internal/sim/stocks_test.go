package sim

import (
	"errors"
	"testing"
)

func quoteFor(t *testing.T, m *StockManager, symbol string, elapsed float64) Quote {
	t.Helper()
	for _, q := range m.Quotes(elapsed) {
		if q.Symbol == symbol {
			return q
		}
	}
	t.Fatalf("no quote for %s", symbol)
	return Quote{}
}

func TestTrendSchedules(t *testing.T) {
	m := NewStockManager()
	cases := []struct {
		symbol    string
		elapsed   float64
		direction TrendDirection
		magnitude int64
	}{
		{"NOVATK", 0, TrendUp, 5},
		{"NOVATK", 29.9, TrendUp, 5},
		{"NOVATK", 30, TrendDown, 12},
		{"NOVATK", 60, TrendUp, 20},
		{"NOVATK", 200, TrendDown, 8},
		{"HARVST", 0, TrendDown, 4},
		{"HARVST", 25, TrendUp, 9},
		{"HARVST", 70, TrendDown, 15},
		{"HARVST", 500, TrendUp, 11},
	}
	for _, c := range cases {
		q := quoteFor(t, m, c.symbol, c.elapsed)
		if q.Direction != c.direction || q.MagnitudePct != c.magnitude {
			t.Fatalf("%s at %v: got %s/%d, want %s/%d",
				c.symbol, c.elapsed, q.Direction, q.MagnitudePct, c.direction, c.magnitude)
		}
	}
}

func TestEffectivePriceIgnoresDirection(t *testing.T) {
	m := NewStockManager()

	// NOVATK trends down 12% here, yet the quoted price sits above base.
	q := quoteFor(t, m, "NOVATK", 40)
	if q.Direction != TrendDown {
		t.Fatalf("direction = %s, want down", q.Direction)
	}
	want := int64(168) * MicrosPerDollar
	if q.EffectivePriceMicros != want {
		t.Fatalf("effective price = %d, want %d", q.EffectivePriceMicros, want)
	}
}

func TestBuyAndSell(t *testing.T) {
	m := NewStockManager()

	txn, err := m.Buy("NOVATK", 10, 0)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	// 10 shares at 150 * 1.05.
	if txn.Direction != Debit || txn.AmountMicros != 1_575*MicrosPerDollar {
		t.Fatalf("buy transaction = %+v, want debit of %d", txn, 1_575*MicrosPerDollar)
	}
	if _, err := m.Buy("NOVATK", 5, 0); !errors.Is(err, ErrHoldingActive) {
		t.Fatalf("double buy: got %v, want ErrHoldingActive", err)
	}

	txn, err = m.Sell("NOVATK", 40)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if txn.Direction != Credit || txn.AmountMicros != 1_680*MicrosPerDollar {
		t.Fatalf("sell transaction = %+v, want credit of %d", txn, 1_680*MicrosPerDollar)
	}
	if _, err := m.Sell("NOVATK", 40); !errors.Is(err, ErrNoHolding) {
		t.Fatalf("double sell: got %v, want ErrNoHolding", err)
	}
}

func TestTradeValidation(t *testing.T) {
	m := NewStockManager()
	if _, err := m.Buy("NOPE", 1, 0); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("unknown buy: got %v, want ErrUnknownSymbol", err)
	}
	if _, err := m.Sell("NOPE", 0); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("unknown sell: got %v, want ErrUnknownSymbol", err)
	}
	if _, err := m.Buy("HARVST", 0, 0); !errors.Is(err, ErrInvalidShares) {
		t.Fatalf("zero shares: got %v, want ErrInvalidShares", err)
	}
}
