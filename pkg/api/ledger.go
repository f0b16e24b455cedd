// Package api defines the wire messages of the fairshare.v1.LedgerService and
// the Connect handler and client that carry them.
//
// Messages are plain Go structs encoded as JSON, so the service can be called
// with curl or any Connect client that speaks the JSON codec:
//
//	curl -X POST -H 'Content-Type: application/json' \
//	  -d '{"group_id":"..."}' \
//	  http://localhost:8080/fairshare.v1.LedgerService/GetGroupBalances
package api

// Person is a group member as shown to clients.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a set of people who share expenses.
type Group struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CreatorID  string   `json:"creator_id"`
	Members    []Person `json:"members"`
	CreatedAt  int64    `json:"created_at"`
	LastActive int64    `json:"last_active"`
}

// Expense is a payment by one member split among several.
type Expense struct {
	ID              string             `json:"id"`
	GroupID         string             `json:"group_id"`
	Description     string             `json:"description"`
	Amount          float64            `json:"amount"`
	PaidByID        string             `json:"paid_by_id"`
	SplitBetweenIDs []string           `json:"split_between_ids"`
	CustomSplits    map[string]float64 `json:"custom_splits,omitempty"`
	Date            string             `json:"date"`
	AddedByID       string             `json:"added_by_id,omitempty"`
	CreatedAt       int64              `json:"created_at"`
}

// Settlement is a recorded payment from one member to another.
type Settlement struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"group_id"`
	FromID    string  `json:"from_id"`
	ToID      string  `json:"to_id"`
	Amount    float64 `json:"amount"`
	Note      string  `json:"note,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

// MemberBalance is one member's position across the group's history.
type MemberBalance struct {
	Person   Person  `json:"person"`
	Lent     float64 `json:"lent"`
	Borrowed float64 `json:"borrowed"`
	Net      float64 `json:"net"` // Positive = owed money, Negative = owes money
}

// Debt is a directed amount From owes To.
type Debt struct {
	From   Person  `json:"from"`
	To     Person  `json:"to"`
	Amount float64 `json:"amount"`
}

// CreateGroupRequest names the creator either by an existing person ID or by
// a name for a new person. CreatorID wins when both are set.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	CreatorID   string   `json:"creator_id,omitempty"`
	CreatorName string   `json:"creator_name,omitempty"`
	MemberNames []string `json:"member_names,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type RenameGroupRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type RenameGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

// AddMemberRequest adds an existing person by PersonID, or a new person by Name.
type AddMemberRequest struct {
	GroupID  string `json:"group_id"`
	PersonID string `json:"person_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

type AddMemberResponse struct {
	Person *Person `json:"person"`
	Group  *Group  `json:"group"`
}

type AddExpenseRequest struct {
	GroupID         string             `json:"group_id"`
	Description     string             `json:"description"`
	Amount          float64            `json:"amount"`
	PaidByID        string             `json:"paid_by_id"`
	SplitBetweenIDs []string           `json:"split_between_ids"`
	CustomSplits    map[string]float64 `json:"custom_splits,omitempty"`
	Date            string             `json:"date,omitempty"`
	AddedByID       string             `json:"added_by_id,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type RecordSettlementRequest struct {
	GroupID string  `json:"group_id"`
	FromID  string  `json:"from_id"`
	ToID    string  `json:"to_id"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

// GetGroupBalancesResponse carries the group's balances rounded to cents.
type GetGroupBalancesResponse struct {
	MemberBalances []MemberBalance `json:"member_balances"`

	// Balances are the net pairwise debts, at most one per pair of members.
	Balances []Debt `json:"balances"`

	// SimplifiedDebts is the settle-up plan with transitive chains collapsed.
	SimplifiedDebts []Debt `json:"simplified_debts"`
}
