// Package ledgerfile reads a group's people, expenses and settlements from a
// YAML or JSON document so balances can be computed offline.
//
// Example:
//
//	people:
//	  - {id: alice, name: Alice}
//	  - {id: bob, name: Bob}
//	expenses:
//	  - description: Hotel
//	    amount: 90
//	    paid_by: alice
//	    split_between: [alice, bob]
//	settlements:
//	  - {from: bob, to: alice, amount: 20}
package ledgerfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/fairshare/internal/calculator"
)

type personEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type expenseEntry struct {
	Description  string             `yaml:"description"`
	Date         string             `yaml:"date"`
	Amount       float64            `yaml:"amount"`
	PaidBy       string             `yaml:"paid_by"`
	SplitBetween []string           `yaml:"split_between"`
	CustomSplits map[string]float64 `yaml:"custom_splits"`
}

type settlementEntry struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Amount float64 `yaml:"amount"`
}

type document struct {
	People      []personEntry     `yaml:"people"`
	Expenses    []expenseEntry    `yaml:"expenses"`
	Settlements []settlementEntry `yaml:"settlements"`
}

// Ledger is a parsed ledger file, ready for the calculator. Settlements are
// already folded into Expenses, after the regular expenses.
type Ledger struct {
	People   []calculator.Person
	Expenses []calculator.Expense
}

// Name returns the display name for a person ID, or the ID itself.
func (l *Ledger) Name(id string) string {
	for _, p := range l.People {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

// Load reads and parses the ledger file at path.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a ledger document. JSON documents are accepted as YAML.
// A person without an id uses their name as the id.
func Parse(data []byte) (*Ledger, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}

	if len(doc.People) == 0 {
		return nil, errors.New("ledger has no people")
	}

	ledger := &Ledger{}
	known := make(map[string]bool, len(doc.People))
	for i, p := range doc.People {
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" {
			p.ID = p.Name
		}
		if p.ID == "" {
			return nil, fmt.Errorf("person %d: id or name is required", i+1)
		}
		if known[p.ID] {
			return nil, fmt.Errorf("person %d: duplicate id %q", i+1, p.ID)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		known[p.ID] = true
		ledger.People = append(ledger.People, calculator.Person{ID: p.ID, Name: p.Name})
	}

	checkPerson := func(kind string, n int, role, id string) error {
		if !known[id] {
			return fmt.Errorf("%s %d: unknown %s %q", kind, n, role, id)
		}
		return nil
	}

	for i, e := range doc.Expenses {
		n := i + 1
		if e.Amount <= 0 {
			return nil, fmt.Errorf("expense %d: amount must be positive", n)
		}
		if err := checkPerson("expense", n, "payer", e.PaidBy); err != nil {
			return nil, err
		}
		if len(e.SplitBetween) == 0 {
			return nil, fmt.Errorf("expense %d: split_between is empty", n)
		}
		for _, id := range e.SplitBetween {
			if err := checkPerson("expense", n, "participant", id); err != nil {
				return nil, err
			}
		}
		ledger.Expenses = append(ledger.Expenses, calculator.Expense{
			ID:             fmt.Sprintf("e%d", n),
			Description:    e.Description,
			Date:           e.Date,
			Amount:         e.Amount,
			PayerID:        e.PaidBy,
			ParticipantIDs: e.SplitBetween,
			CustomSplits:   e.CustomSplits,
		})
	}

	for i, s := range doc.Settlements {
		n := i + 1
		if s.Amount <= 0 {
			return nil, fmt.Errorf("settlement %d: amount must be positive", n)
		}
		if err := checkPerson("settlement", n, "payer", s.From); err != nil {
			return nil, err
		}
		if err := checkPerson("settlement", n, "payee", s.To); err != nil {
			return nil, err
		}
		ledger.Expenses = append(ledger.Expenses,
			calculator.SettlementExpense(fmt.Sprintf("s%d", n), s.From, s.To, s.Amount))
	}

	return ledger, nil
}
