package sim

import "testing"

func TestLedgerStartsWithInitialDeposit(t *testing.T) {
	l := NewLedger(10_000 * MicrosPerDollar)
	if got := l.BalanceMicros(); got != 10_000*MicrosPerDollar {
		t.Fatalf("balance = %d, want %d", got, 10_000*MicrosPerDollar)
	}
	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	first := entries[0]
	if first.Title != "Initial Deposit" || first.Category != CategoryInitialDeposit || first.Direction != Credit {
		t.Fatalf("unexpected opening entry: %+v", first)
	}
}

func TestLedgerApplyBatch(t *testing.T) {
	l := NewLedger(1_000 * MicrosPerDollar)
	balance := l.Apply([]Transaction{
		newTransaction("Monthly Salary", CategorySalary, Credit, 500*MicrosPerDollar, ""),
		newTransaction("Monthly Expenditure", CategoryExpense, Debit, 200*MicrosPerDollar, ""),
	})
	if balance != 1_300*MicrosPerDollar {
		t.Fatalf("balance = %d, want %d", balance, 1_300*MicrosPerDollar)
	}
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
}

func TestLedgerBalanceMatchesEntries(t *testing.T) {
	l := NewLedger(10_000 * MicrosPerDollar)
	l.Apply([]Transaction{
		newTransaction("a", CategorySalary, Credit, 7, ""),
		newTransaction("b", CategoryExpense, Debit, 3, ""),
	})
	l.Apply([]Transaction{
		newTransaction("c", CategoryStock, Debit, 11, ""),
	})

	var sum int64
	for _, e := range l.Entries() {
		sum += e.SignedMicros()
	}
	if sum != l.BalanceMicros() {
		t.Fatalf("entry sum %d != balance %d", sum, l.BalanceMicros())
	}
}

func TestLedgerEntriesIsACopy(t *testing.T) {
	l := NewLedger(100)
	entries := l.Entries()
	entries[0].Title = "mutated"
	if l.Entries()[0].Title == "mutated" {
		t.Fatal("Entries exposed internal storage")
	}
}
