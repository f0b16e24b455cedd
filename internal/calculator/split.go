package calculator

// Person is a member of the roster the calculator works over.
type Person struct {
	ID   string
	Name string
}

// Expense represents one payment made by PayerID on behalf of ParticipantIDs.
type Expense struct {
	ID          string
	Description string
	Date        string

	// Amount is the total paid. Expected to be positive.
	Amount float64

	// PayerID is the person who paid. The payer does not have to be a participant.
	PayerID string

	// ParticipantIDs are the people sharing the cost. When CustomSplits is empty
	// the amount is divided evenly across all of them, payer included.
	ParticipantIDs []string

	// CustomSplits optionally maps a participant ID to the exact amount they owe.
	CustomSplits map[string]float64
}

// ShareOf returns the amount participantID owes for the expense.
//
// With custom splits the participant's explicit value is used; a participant
// missing from the map falls back to the equal share. Returns 0 for an expense
// without participants.
func ShareOf(expense Expense, participantID string) float64 {
	if len(expense.ParticipantIDs) == 0 {
		return 0
	}
	if len(expense.CustomSplits) > 0 {
		if amount, ok := expense.CustomSplits[participantID]; ok {
			return amount
		}
	}
	return expense.Amount / float64(len(expense.ParticipantIDs))
}

// SettlementExpense models a payment from one person to another as an expense
// the payer covered entirely for the payee. It cancels the same amount of the
// payer's debt to the payee.
func SettlementExpense(id, fromID, toID string, amount float64) Expense {
	return Expense{
		ID:             id,
		Description:    "Settlement",
		Amount:         amount,
		PayerID:        fromID,
		ParticipantIDs: []string{toID},
		CustomSplits:   map[string]float64{toID: amount},
	}
}

// roster maps person IDs to their position in the supplied people slice.
// The first occurrence of a duplicated ID wins.
type roster struct {
	index map[string]int
	ids   []string
}

func newRoster(people []Person) roster {
	r := roster{
		index: make(map[string]int, len(people)),
		ids:   make([]string, 0, len(people)),
	}
	for _, p := range people {
		if _, exists := r.index[p.ID]; exists {
			continue
		}
		r.index[p.ID] = len(r.ids)
		r.ids = append(r.ids, p.ID)
	}
	return r
}

func (r roster) size() int {
	return len(r.ids)
}

// forEachShare calls fn for every debtor/payer pair produced by the expenses,
// using roster indexes. Payers outside the roster skip the whole expense;
// participants outside the roster are skipped individually.
func forEachShare(expenses []Expense, r roster, fn func(debtor, payer int, share float64)) {
	for _, expense := range expenses {
		// Guard against division by zero on an empty participant list.
		if len(expense.ParticipantIDs) == 0 {
			continue
		}

		payer, ok := r.index[expense.PayerID]
		if !ok {
			continue
		}

		for _, participantID := range expense.ParticipantIDs {
			if participantID == expense.PayerID {
				continue
			}
			debtor, ok := r.index[participantID]
			if !ok {
				continue
			}

			share := ShareOf(expense, participantID)
			if share <= 0 {
				continue
			}
			fn(debtor, payer, share)
		}
	}
}
