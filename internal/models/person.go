package models

// Person represents someone who takes part in a group's expenses.
// People are immutable once created and are referenced by ID everywhere else.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// Name is the display name of the person.
	Name string

	// CreatedAt is the Unix timestamp when the person was created.
	CreatedAt int64
}
