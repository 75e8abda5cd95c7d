package sim

import "fmt"

// Salary tiers are monthly pay in thousands of dollars; growth tiers are
// the yearly raise percentage. Lower pay and slower growth make for a
// harder game.
const (
	SalaryEasyThousands   = 100
	SalaryMediumThousands = 50
	SalaryHardThousands   = 20

	GrowthEasyPct   = 10
	GrowthMediumPct = 5
	GrowthHardPct   = 2
)

// DependentFeeCutoffAge is the age past which a dependent no longer
// incurs school fees.
const DependentFeeCutoffAge = 25.0

// Dependent ages forward with simulated time; its position in the
// profile's slice is its identity.
type Dependent struct {
	Age float64 `json:"age"`
}

// Profile is immutable once a session starts.
type Profile struct {
	Name                   string      `json:"name"`
	MonthlySalaryThousands int         `json:"monthly_salary_thousands"`
	MonthlyExpensesMicros  int64       `json:"monthly_expenses_micros"`
	CareerGrowthPct        int         `json:"career_growth_pct"`
	Dependents             []Dependent `json:"dependents,omitempty"`
}

func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.MonthlySalaryThousands <= 0 {
		return fmt.Errorf("%w: salary must be > 0", ErrInvalidProfile)
	}
	if p.MonthlyExpensesMicros < 0 {
		return fmt.Errorf("%w: expenses must be >= 0", ErrInvalidProfile)
	}
	if p.CareerGrowthPct < 0 {
		return fmt.Errorf("%w: career growth must be >= 0", ErrInvalidProfile)
	}
	for i, d := range p.Dependents {
		if d.Age < 0 {
			return fmt.Errorf("%w: dependent %d has negative age", ErrInvalidProfile, i)
		}
	}
	return nil
}

func DefaultProfile() Profile {
	return Profile{
		Name:                   "John Appleseed",
		MonthlySalaryThousands: SalaryMediumThousands,
		MonthlyExpensesMicros:  1_000 * MicrosPerDollar,
		CareerGrowthPct:        GrowthMediumPct,
		Dependents:             []Dependent{{Age: 2}},
	}
}

// SchoolFeeMicros is the per-cycle fee for a dependent of the given age.
func SchoolFeeMicros(age float64) int64 {
	switch {
	case age <= 10:
		return 300 * MicrosPerDollar
	case age <= 18:
		return 600 * MicrosPerDollar
	case age <= DependentFeeCutoffAge:
		return 1_500 * MicrosPerDollar
	default:
		return 0
	}
}
