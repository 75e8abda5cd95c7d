package sim

import "github.com/google/uuid"

type Category string

const (
	CategorySalary         Category = "salary"
	CategoryExpense        Category = "expense"
	CategoryFixedDeposit   Category = "fixed-deposit"
	CategorySavings        Category = "savings"
	CategoryInsurance      Category = "insurance"
	CategoryManagedFund    Category = "managed-fund"
	CategoryStock          Category = "stock"
	CategorySchoolFee      Category = "school-fee"
	CategoryLifeEvent      Category = "life-event"
	CategoryInitialDeposit Category = "initial-deposit"
)

type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// Transaction is immutable once created. AmountMicros is always
// non-negative; Direction carries the sign.
type Transaction struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     Category  `json:"category"`
	Direction    Direction `json:"direction"`
	AmountMicros int64     `json:"amount_micros"`
	Note         string    `json:"note,omitempty"`
}

func newTransaction(title string, category Category, direction Direction, amountMicros int64, note string) Transaction {
	return Transaction{
		ID:           uuid.NewString(),
		Title:        title,
		Category:     category,
		Direction:    direction,
		AmountMicros: amountMicros,
		Note:         note,
	}
}

func (t Transaction) SignedMicros() int64 {
	if t.Direction == Debit {
		return -t.AmountMicros
	}
	return t.AmountMicros
}

// Ledger is the append-only transaction history plus the derived running
// balance. Entries are stored in creation order; display order is the
// caller's concern.
type Ledger struct {
	entries       []Transaction
	balanceMicros int64
}

func NewLedger(initialDepositMicros int64) *Ledger {
	l := &Ledger{}
	l.Apply([]Transaction{newTransaction(
		"Initial Deposit",
		CategoryInitialDeposit,
		Credit,
		initialDepositMicros,
		"This is an initial deposit for you to work with at the start of the game.",
	)})
	return l
}

// Apply appends a batch and updates the balance once for the whole
// batch. Returns the new balance.
func (l *Ledger) Apply(batch []Transaction) int64 {
	var delta int64
	for _, t := range batch {
		delta += t.SignedMicros()
	}
	l.entries = append(l.entries, batch...)
	l.balanceMicros += delta
	return l.balanceMicros
}

func (l *Ledger) BalanceMicros() int64 {
	return l.balanceMicros
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the history in creation order.
func (l *Ledger) Entries() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}
