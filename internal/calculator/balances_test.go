package calculator

import (
	"math"
	"testing"
)

var (
	alice   = Person{ID: "p1", Name: "Alice"}
	bob     = Person{ID: "p2", Name: "Bob"}
	charlie = Person{ID: "p3", Name: "Charlie"}
	diana   = Person{ID: "p4", Name: "Diana"}
)

func findBalance(balances []Balance, from, to string) (Balance, bool) {
	for _, b := range balances {
		if b.From == from && b.To == to {
			return b, true
		}
	}
	return Balance{}, false
}

func TestCalculateBalances(t *testing.T) {
	people := []Person{alice, bob, charlie}

	tests := []struct {
		name         string
		expenses     []Expense
		people       []Person
		validateFunc func(t *testing.T, balances []Balance)
	}{
		{
			name: "equal split among three",
			expenses: []Expense{
				{ID: "e1", Amount: 90, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID, charlie.ID}},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 2 {
					t.Fatalf("expected 2 balances, got %d: %+v", len(balances), balances)
				}
				for _, debtor := range []string{bob.ID, charlie.ID} {
					b, ok := findBalance(balances, debtor, alice.ID)
					if !ok {
						t.Fatalf("missing balance %s -> %s", debtor, alice.ID)
					}
					if math.Abs(b.Amount-30.0) > 0.01 {
						t.Errorf("%s owes %v, want 30.00", debtor, b.Amount)
					}
				}
			},
		},
		{
			name: "custom split",
			expenses: []Expense{
				{
					ID:             "e1",
					Amount:         100,
					PayerID:        alice.ID,
					ParticipantIDs: []string{alice.ID, bob.ID, charlie.ID},
					CustomSplits:   map[string]float64{bob.ID: 70, charlie.ID: 30},
				},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 2 {
					t.Fatalf("expected 2 balances, got %d: %+v", len(balances), balances)
				}
				b, _ := findBalance(balances, bob.ID, alice.ID)
				if math.Abs(b.Amount-70.0) > 0.01 {
					t.Errorf("bob owes %v, want 70", b.Amount)
				}
				c, _ := findBalance(balances, charlie.ID, alice.ID)
				if math.Abs(c.Amount-30.0) > 0.01 {
					t.Errorf("charlie owes %v, want 30", c.Amount)
				}
				for _, bal := range balances {
					if bal.From == alice.ID {
						t.Errorf("payer should owe nothing, got %+v", bal)
					}
				}
			},
		},
		{
			name: "opposite debts are netted into one direction",
			expenses: []Expense{
				// Bob owes Alice 10
				{ID: "e1", Amount: 20, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
				// Alice owes Bob 4
				{ID: "e2", Amount: 8, PayerID: bob.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 1 {
					t.Fatalf("expected 1 balance, got %d: %+v", len(balances), balances)
				}
				b := balances[0]
				if b.From != bob.ID || b.To != alice.ID || math.Abs(b.Amount-6.0) > 0.01 {
					t.Errorf("got %+v, want %s -> %s 6.00", b, bob.ID, alice.ID)
				}
			},
		},
		{
			name: "fully cancelling debts emit nothing",
			expenses: []Expense{
				{ID: "e1", Amount: 20, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
				{ID: "e2", Amount: 20, PayerID: bob.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no balances, got %+v", balances)
				}
			},
		},
		{
			name: "net within epsilon is treated as settled",
			expenses: []Expense{
				{ID: "e1", Amount: 10.00, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
				{ID: "e2", Amount: 9.99, PayerID: bob.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no balances, got %+v", balances)
				}
			},
		},
		{
			name: "payer outside roster skips the whole expense",
			expenses: []Expense{
				{ID: "e1", Amount: 90, PayerID: "stranger", ParticipantIDs: []string{alice.ID, bob.ID, "stranger"}},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no balances, got %+v", balances)
				}
			},
		},
		{
			name: "participant outside roster is skipped alone",
			expenses: []Expense{
				{ID: "e1", Amount: 90, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID, "stranger"}},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 1 {
					t.Fatalf("expected 1 balance, got %d: %+v", len(balances), balances)
				}
				// Share is still divided by all three participants.
				if b := balances[0]; b.From != bob.ID || math.Abs(b.Amount-30.0) > 0.01 {
					t.Errorf("got %+v, want bob owing 30", b)
				}
			},
		},
		{
			name: "empty participant list is ignored",
			expenses: []Expense{
				{ID: "e1", Amount: 90, PayerID: alice.ID},
			},
			people: people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no balances, got %+v", balances)
				}
			},
		},
		{
			name: "uninvolved person is never referenced",
			expenses: []Expense{
				{ID: "e1", Amount: 50, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
			},
			people: []Person{alice, bob, charlie, diana},
			validateFunc: func(t *testing.T, balances []Balance) {
				for _, b := range balances {
					if b.From == diana.ID || b.To == diana.ID || b.From == charlie.ID || b.To == charlie.ID {
						t.Errorf("unexpected balance referencing uninvolved person: %+v", b)
					}
				}
			},
		},
		{
			name:     "no expenses",
			expenses: nil,
			people:   people,
			validateFunc: func(t *testing.T, balances []Balance) {
				if balances == nil {
					t.Error("expected empty slice, got nil")
				}
				if len(balances) != 0 {
					t.Errorf("expected no balances, got %+v", balances)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := CalculateBalances(tt.expenses, tt.people)
			tt.validateFunc(t, balances)
		})
	}
}

// groupTrip is a mixed history used by the property tests.
func groupTrip() ([]Expense, []Person) {
	people := []Person{alice, bob, charlie, diana}
	expenses := []Expense{
		{ID: "e1", Amount: 120, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID, charlie.ID, diana.ID}},
		{ID: "e2", Amount: 100, PayerID: bob.ID, ParticipantIDs: []string{alice.ID, bob.ID, charlie.ID}},
		{
			ID:             "e3",
			Amount:         75,
			PayerID:        charlie.ID,
			ParticipantIDs: []string{alice.ID, diana.ID},
			CustomSplits:   map[string]float64{alice.ID: 25, diana.ID: 50},
		},
		{ID: "e4", Amount: 33.33, PayerID: diana.ID, ParticipantIDs: []string{bob.ID, charlie.ID, diana.ID}},
		{ID: "e5", Amount: 60, PayerID: bob.ID, ParticipantIDs: []string{alice.ID, bob.ID}},
	}
	return expenses, people
}

// expectedNet computes paid minus fair share for every person directly from the expenses.
func expectedNet(expenses []Expense) map[string]float64 {
	net := make(map[string]float64)
	for _, e := range expenses {
		for _, p := range e.ParticipantIDs {
			if p == e.PayerID {
				continue
			}
			share := ShareOf(e, p)
			net[e.PayerID] += share
			net[p] -= share
		}
	}
	return net
}

func TestCalculateBalances_ZeroSum(t *testing.T) {
	expenses, people := groupTrip()
	balances := CalculateBalances(expenses, people)

	got := make(map[string]float64)
	for _, b := range balances {
		got[b.From] -= b.Amount
		got[b.To] += b.Amount
	}

	want := expectedNet(expenses)
	total := 0.0
	for _, p := range people {
		total += got[p.ID]
		if math.Abs(got[p.ID]-want[p.ID]) > 0.01*float64(len(people)) {
			t.Errorf("%s net = %v, want %v", p.Name, got[p.ID], want[p.ID])
		}
	}
	if math.Abs(total) > 0.0001 {
		t.Errorf("nets should sum to zero, got %v", total)
	}
}

func TestCalculateBalances_NoDoublePairs(t *testing.T) {
	expenses, people := groupTrip()
	balances := CalculateBalances(expenses, people)

	seen := make(map[[2]string]bool)
	for _, b := range balances {
		if b.From == b.To {
			t.Errorf("self balance: %+v", b)
		}
		key := [2]string{b.From, b.To}
		if b.From > b.To {
			key = [2]string{b.To, b.From}
		}
		if seen[key] {
			t.Errorf("pair %v appears more than once", key)
		}
		seen[key] = true
	}
}

func TestCalculateBalances_DoesNotMutateInput(t *testing.T) {
	expenses, people := groupTrip()
	splits := expenses[2].CustomSplits
	participants := append([]string(nil), expenses[0].ParticipantIDs...)

	CalculateBalances(expenses, people)

	if splits[alice.ID] != 25 || splits[diana.ID] != 50 || len(splits) != 2 {
		t.Errorf("custom splits mutated: %v", splits)
	}
	for i, p := range expenses[0].ParticipantIDs {
		if p != participants[i] {
			t.Errorf("participants mutated: %v", expenses[0].ParticipantIDs)
		}
	}
}

func TestNetPositions(t *testing.T) {
	expenses, people := groupTrip()
	positions := NetPositions(expenses, people)

	if len(positions) != len(people) {
		t.Fatalf("expected %d positions, got %d", len(people), len(positions))
	}

	want := expectedNet(expenses)
	total := 0.0
	for i, pos := range positions {
		if pos.PersonID != people[i].ID {
			t.Errorf("position %d is %s, want roster order %s", i, pos.PersonID, people[i].ID)
		}
		if math.Abs(pos.Net-(pos.Lent-pos.Borrowed)) > 0.0001 {
			t.Errorf("%s net %v != lent %v - borrowed %v", pos.PersonID, pos.Net, pos.Lent, pos.Borrowed)
		}
		if math.Abs(pos.Net-want[pos.PersonID]) > 0.0001 {
			t.Errorf("%s net = %v, want %v", pos.PersonID, pos.Net, want[pos.PersonID])
		}
		total += pos.Net
	}
	if math.Abs(total) > 0.0001 {
		t.Errorf("nets should sum to zero, got %v", total)
	}
}

func TestNetPositions_EqualSplit(t *testing.T) {
	positions := NetPositions([]Expense{
		{ID: "e1", Amount: 90, PayerID: alice.ID, ParticipantIDs: []string{alice.ID, bob.ID, charlie.ID}},
	}, []Person{alice, bob, charlie})

	if math.Abs(positions[0].Lent-60.0) > 0.01 || math.Abs(positions[0].Net-60.0) > 0.01 {
		t.Errorf("alice: got %+v, want lent 60 net 60", positions[0])
	}
	for _, pos := range positions[1:] {
		if math.Abs(pos.Borrowed-30.0) > 0.01 || math.Abs(pos.Net+30.0) > 0.01 {
			t.Errorf("%s: got %+v, want borrowed 30 net -30", pos.PersonID, pos)
		}
	}
}
