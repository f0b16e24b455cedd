package models

// Expense represents a payment made by one group member and shared by others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is free text (e.g., "Dinner", "Cab to airport").
	Description string

	// Amount is the total paid. Always positive.
	Amount float64

	// PaidByID is the person who paid.
	PaidByID string

	// SplitBetweenIDs are the people sharing the cost.
	SplitBetweenIDs []string

	// CustomSplits maps a participant ID to the exact amount they owe.
	// Empty means the amount is split equally.
	CustomSplits map[string]float64

	// Date is the day the expense happened, formatted as YYYY-MM-DD.
	Date string

	// AddedByID is the person who recorded the expense. Optional.
	AddedByID string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
