package learn

// Section is one step of a lesson's "how it works" walkthrough.
type Section struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

// Grade scores submitted answers against the quiz; answers missing from
// the slice count as wrong.
func (q Quiz) Grade(answers []int) (correct int) {
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectOption {
			correct++
		}
	}
	return correct
}

type Lesson struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Sections    []Section `json:"sections"`
	Quiz        Quiz      `json:"quiz"`
	Completed   bool      `json:"completed"`
}

// DefaultLessons is the built-in curriculum, one lesson per game concept.
func DefaultLessons() []Lesson {
	return []Lesson{
		{
			Title:       "Fixed Deposits",
			Description: "Fixed deposits are tools provided by banks or other financial institutions which provide investors a higher rate of interest than a regular savings account until a given maturity date.",
			Sections: []Section{
				{
					Title:       "Normally...",
					Explanation: "Usually, regular savings accounts have an average interest rate of 0.20-1.00% APY (Annual Percentage Yield). This amounts to very little growth for your money over long periods of time.\nFixed deposits (FDs) can help with this, but do note that you cannot replace savings accounts with them.",
				},
				{
					Title:       "The Details",
					Explanation: "First, you open a FD account and select a time period (you will not be able to access the money during this period) for which you'd like to store your money.\nNext, your financial institution (bank, credit union etc.) will give you an interest rate based on the time period and initial sum.\nNote that you should think ahead when setting aside your FD investment to avoid a penalty fee some institutions impose should you break your FD.",
				},
				{
					Title:       "Comparison",
					Explanation: "An FD of $1000 set for 10 years with an interest rate of 7% per annum would result in a final sum of $2145 as compared to a much lower sum of around $1082 from a savings account at a rate of 0.8% for the same time period.",
				},
			},
			Quiz: Quiz{Questions: []Question{
				{
					Prompt:        "Is it a good idea to completely use fixed deposits?",
					Options:       []string{"Yes", "No"},
					CorrectOption: 0,
				},
				{
					Prompt:        "You lose any gained interest if you decide to break your FD before the end of its tenure.",
					Options:       []string{"Yes", "No"},
					CorrectOption: 1,
				},
			}},
		},
		{
			Title:       "Savings",
			Description: "A savings account is the foundation of personal finance: a safe, liquid place for your money that pays a small amount of interest.",
			Sections: []Section{
				{
					Title:       "Safety First",
					Explanation: "Savings accounts keep your money accessible at all times. The interest is modest, but you can withdraw whenever an emergency or opportunity comes up without paying a penalty.",
				},
				{
					Title:       "The Emergency Fund",
					Explanation: "A common rule of thumb is to keep three to six months of expenses in savings before locking money away in longer-term investments. Unexpected costs like accidents or medical emergencies can arrive at any time.",
				},
			},
			Quiz: Quiz{Questions: []Question{
				{
					Prompt:        "Can you withdraw from a regular savings account at any time?",
					Options:       []string{"Yes", "No"},
					CorrectOption: 0,
				},
				{
					Prompt:        "Should you invest every dollar you have and keep nothing in savings?",
					Options:       []string{"Yes", "No"},
					CorrectOption: 1,
				},
			}},
		},
		{
			Title:       "Insurance",
			Description: "Insurance trades a small, predictable monthly premium for protection against large, unpredictable costs.",
			Sections: []Section{
				{
					Title:       "How Premiums Work",
					Explanation: "You pay the insurer a fixed premium every month. In exchange, when a covered event happens, the insurer pays the cost instead of you. Longer coverage periods cost more per month.",
				},
				{
					Title:       "When It Pays Off",
					Explanation: "A single accident or medical emergency can cost many times a year of premiums. Insurance will rarely make you money, but it stops one bad day from draining your balance.",
				},
			},
			Quiz: Quiz{Questions: []Question{
				{
					Prompt:        "What does a monthly premium buy you?",
					Options:       []string{"Guaranteed investment returns", "Protection against covered costs", "A higher salary"},
					CorrectOption: 1,
				},
				{
					Prompt:        "Is insurance mainly a way to grow your money?",
					Options:       []string{"Yes", "No"},
					CorrectOption: 1,
				},
			}},
		},
		{
			Title:       "Managed Funds",
			Description: "Managed funds pool money from many investors and hand it to a professional manager who buys a mix of assets on their behalf.",
			Sections: []Section{
				{
					Title:       "Diversification",
					Explanation: "Because a fund holds many different assets, a drop in any single one hurts less. This makes funds less volatile than picking individual stocks yourself.",
				},
				{
					Title:       "Fees and Patience",
					Explanation: "Managers charge a fee whether the fund goes up or down, and returns only compound over years. Funds reward investors who leave their money alone rather than trade in and out.",
				},
			},
			Quiz: Quiz{Questions: []Question{
				{
					Prompt:        "Why are managed funds usually less risky than a single stock?",
					Options:       []string{"They are guaranteed by the government", "They spread money across many assets", "They never lose value"},
					CorrectOption: 1,
				},
			}},
		},
	}
}
