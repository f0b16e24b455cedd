package calculator

// Epsilon is the tolerance below which a balance or debt is treated as settled.
const Epsilon = 0.01

// Balance is the net amount From owes To, aggregated over all expenses.
type Balance struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// MemberBalance summarizes one person's position across all expenses.
type MemberBalance struct {
	PersonID string
	Lent     float64 // Shares of others on expenses this person paid
	Borrowed float64 // This person's shares on expenses others paid
	Net      float64 // Positive = owed money, Negative = owes money
}

// CalculateBalances computes net pairwise balances between the people in scope.
//
// Algorithm:
//   - owed[debtor][payer] accumulates every non-payer participant's share
//   - each unordered pair {X, Y} is netted: owed[X][Y] - owed[Y][X]
//   - a pair yields at most one Balance, in the direction of the positive net,
//     and nothing when the net is within Epsilon of zero
//
// Output order follows the roster: pairs are visited with X before Y in people.
func CalculateBalances(expenses []Expense, people []Person) []Balance {
	r := newRoster(people)
	n := r.size()

	owed := make([][]float64, n)
	for i := range owed {
		owed[i] = make([]float64, n)
	}

	forEachShare(expenses, r, func(debtor, payer int, share float64) {
		owed[debtor][payer] += share
	})

	balances := []Balance{}
	for x := 0; x < n; x++ {
		for y := x + 1; y < n; y++ {
			net := owed[x][y] - owed[y][x]
			switch {
			case net > Epsilon:
				balances = append(balances, Balance{From: r.ids[x], To: r.ids[y], Amount: net})
			case net < -Epsilon:
				balances = append(balances, Balance{From: r.ids[y], To: r.ids[x], Amount: -net})
			}
		}
	}

	return balances
}

// NetPositions returns every roster member's lent, borrowed and net totals,
// in roster order. It uses the same share rule as CalculateBalances, so the
// nets always sum to zero and match the balances each person appears in.
func NetPositions(expenses []Expense, people []Person) []MemberBalance {
	r := newRoster(people)

	positions := make([]MemberBalance, r.size())
	for i, id := range r.ids {
		positions[i].PersonID = id
	}

	forEachShare(expenses, r, func(debtor, payer int, share float64) {
		positions[payer].Lent += share
		positions[debtor].Borrowed += share
	})

	for i := range positions {
		positions[i].Net = positions[i].Lent - positions[i].Borrowed
	}

	return positions
}
