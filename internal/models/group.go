package models

// MaxGroupNameLength is the longest group name accepted.
const MaxGroupNameLength = 50

// Group represents a set of people who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string

	// CreatorID is the person who created the group.
	CreatorID string

	// MemberIDs are the people in the group, in the order they joined.
	// The creator is always a member.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// LastActive is the Unix timestamp of the last write to the group.
	// Groups inactive for longer than the configured TTL are pruned.
	LastActive int64
}

// HasMember reports whether personID belongs to the group.
func (g *Group) HasMember(personID string) bool {
	for _, id := range g.MemberIDs {
		if id == personID {
			return true
		}
	}
	return false
}
