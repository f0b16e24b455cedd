package calculator

// SimplifiedDebt is a single payment in a settlement plan.
type SimplifiedDebt struct {
	From   string
	To     string
	Amount float64
}

// SimplifyDebts collapses transitive chains in the given balances.
//
// A→B and B→C are rewritten so that the smaller of the two amounts moves
// directly from A to C. Opposite debts between the same two people cancel out.
// The scan restarts from the top of the working list after every collapse, and
// the first chain found (outer index i, inner index j, both in list order) is the
// one collapsed. The loop stops when no chain remains.
//
// The result is not necessarily the minimum number of payments, but every
// person's net position is preserved and running SimplifyDebts on its own
// output returns the same list.
func SimplifyDebts(balances []Balance) []SimplifiedDebt {
	work := make([]SimplifiedDebt, 0, len(balances))
	for _, b := range balances {
		if b.From == b.To || b.Amount <= Epsilon {
			continue
		}
		work = append(work, SimplifiedDebt{From: b.From, To: b.To, Amount: b.Amount})
	}

	// Each collapse lowers the total of all amounts by more than Epsilon,
	// so this terminates.
	for collapseFirstChain(&work) {
	}

	return work
}

// collapseFirstChain finds the first X→Y, Y→Z pair in the list and collapses it.
// It reports whether anything changed.
func collapseFirstChain(work *[]SimplifiedDebt) bool {
	w := *work
	for i := range w {
		for j := range w {
			if i == j || w[i].To != w[j].From {
				continue
			}

			amount := min(w[i].Amount, w[j].Amount)
			w[i].Amount -= amount
			w[j].Amount -= amount

			from, to := w[i].From, w[j].To
			if from != to {
				if k := indexOfEdge(w, from, to); k >= 0 {
					w[k].Amount += amount
				} else {
					w = append(w, SimplifiedDebt{From: from, To: to, Amount: amount})
				}
			}

			*work = dropSettled(w)
			return true
		}
	}
	return false
}

func indexOfEdge(debts []SimplifiedDebt, from, to string) int {
	for k, d := range debts {
		if d.From == from && d.To == to {
			return k
		}
	}
	return -1
}

// dropSettled removes entries at or below Epsilon, keeping order.
func dropSettled(debts []SimplifiedDebt) []SimplifiedDebt {
	kept := debts[:0]
	for _, d := range debts {
		if d.Amount > Epsilon {
			kept = append(kept, d)
		}
	}
	return kept
}
