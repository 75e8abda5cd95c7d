package sim

import (
	"fmt"
	"math"
)

// Household emits the recurring charges of the player's life: salary,
// fixed expenses, and school fees for dependents still under the fee
// cutoff. It also owns synthetic dependent aging, which advances every
// tick whether or not a charge cycle is due.
type Household struct {
	salaryThousands int
	expensesMicros  int64
	growthPct       int
	dependents      []Dependent
}

func NewHousehold(p Profile) *Household {
	deps := make([]Dependent, len(p.Dependents))
	copy(deps, p.Dependents)
	return &Household{
		salaryThousands: p.MonthlySalaryThousands,
		expensesMicros:  p.MonthlyExpensesMicros,
		growthPct:       p.CareerGrowthPct,
		dependents:      deps,
	}
}

// Dependents returns a copy of the current dependent records.
func (h *Household) Dependents() []Dependent {
	out := make([]Dependent, len(h.dependents))
	copy(out, h.dependents)
	return out
}

// MonthlySalaryMicros applies the career-growth compounding as a yearly
// step function: the factor jumps at whole-year boundaries and is flat
// in between.
func (h *Household) MonthlySalaryMicros(yearsElapsed int) int64 {
	base := int64(h.salaryThousands) * 1_000 * MicrosPerDollar
	factor := math.Pow(1+float64(h.growthPct)/100, float64(yearsElapsed))
	return scaleMicros(base, factor)
}

// Advance runs one tick of the household: dependents age forward by
// simYearsPerTick, and when a charge cycle is due the monthly
// transactions are emitted.
func (h *Household) Advance(simYearsPerTick float64, yearsElapsed int, chargeDue bool) []Transaction {
	for i := range h.dependents {
		h.dependents[i].Age += simYearsPerTick
	}
	if !chargeDue {
		return nil
	}

	charges := []Transaction{
		newTransaction("Monthly Salary", CategorySalary, Credit, h.MonthlySalaryMicros(yearsElapsed), ""),
		newTransaction("Monthly Expenditure", CategoryExpense, Debit, h.expensesMicros, ""),
	}
	for i, d := range h.dependents {
		fee := SchoolFeeMicros(d.Age)
		if fee == 0 {
			continue
		}
		charges = append(charges, newTransaction(
			fmt.Sprintf("School Fees for Child %d", i+1),
			CategorySchoolFee,
			Debit,
			fee,
			"",
		))
	}
	return charges
}
