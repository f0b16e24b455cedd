package models

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromID is the person who paid (debtor settling up).
	FromID string

	// ToID is the person who received payment (creditor being paid).
	ToID string

	// Amount is the payment amount.
	Amount float64

	// Note is an optional description for the settlement.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
