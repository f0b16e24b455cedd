package calculator

import "github.com/shopspring/decimal"

// RoundCents rounds an amount to two decimal places, half away from zero.
func RoundCents(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}

// RoundBalances returns a copy of balances with amounts rounded to cents.
// Entries that round to zero are dropped.
func RoundBalances(balances []Balance) []Balance {
	rounded := make([]Balance, 0, len(balances))
	for _, b := range balances {
		b.Amount = RoundCents(b.Amount)
		if b.Amount == 0 {
			continue
		}
		rounded = append(rounded, b)
	}
	return rounded
}

// RoundDebts returns a copy of debts with amounts rounded to cents.
// Entries that round to zero are dropped.
func RoundDebts(debts []SimplifiedDebt) []SimplifiedDebt {
	rounded := make([]SimplifiedDebt, 0, len(debts))
	for _, d := range debts {
		d.Amount = RoundCents(d.Amount)
		if d.Amount == 0 {
			continue
		}
		rounded = append(rounded, d)
	}
	return rounded
}

// RoundPositions returns a copy of positions with every total rounded to cents.
func RoundPositions(positions []MemberBalance) []MemberBalance {
	rounded := make([]MemberBalance, len(positions))
	for i, p := range positions {
		rounded[i] = MemberBalance{
			PersonID: p.PersonID,
			Lent:     RoundCents(p.Lent),
			Borrowed: RoundCents(p.Borrowed),
			Net:      RoundCents(p.Net),
		}
	}
	return rounded
}
