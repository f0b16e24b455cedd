package service

import (
	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/pkg/api"
)

// personOf resolves an ID to its wire form. Unknown IDs keep an empty name.
func personOf(people map[string]*models.Person, id string) api.Person {
	if p, ok := people[id]; ok {
		return api.Person{ID: p.ID, Name: p.Name}
	}
	return api.Person{ID: id}
}

func groupToAPI(group *models.Group, people map[string]*models.Person) *api.Group {
	members := make([]api.Person, len(group.MemberIDs))
	for i, id := range group.MemberIDs {
		members[i] = personOf(people, id)
	}
	return &api.Group{
		ID:         group.ID,
		Name:       group.Name,
		CreatorID:  group.CreatorID,
		Members:    members,
		CreatedAt:  group.CreatedAt,
		LastActive: group.LastActive,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Description:     e.Description,
		Amount:          e.Amount,
		PaidByID:        e.PaidByID,
		SplitBetweenIDs: e.SplitBetweenIDs,
		CustomSplits:    e.CustomSplits,
		Date:            e.Date,
		AddedByID:       e.AddedByID,
		CreatedAt:       e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:        s.ID,
		GroupID:   s.GroupID,
		FromID:    s.FromID,
		ToID:      s.ToID,
		Amount:    s.Amount,
		Note:      s.Note,
		CreatedAt: s.CreatedAt,
	}
}

// toCalculatorExpense converts a stored expense for the balance calculator.
func toCalculatorExpense(e *models.Expense) calculator.Expense {
	return calculator.Expense{
		ID:             e.ID,
		Description:    e.Description,
		Date:           e.Date,
		Amount:         e.Amount,
		PayerID:        e.PaidByID,
		ParticipantIDs: e.SplitBetweenIDs,
		CustomSplits:   e.CustomSplits,
	}
}

func settlementAsExpense(s *models.Settlement) calculator.Expense {
	return calculator.SettlementExpense(s.ID, s.FromID, s.ToID, s.Amount)
}

func debtToAPI(people map[string]*models.Person, from, to string, amount float64) api.Debt {
	return api.Debt{
		From:   personOf(people, from),
		To:     personOf(people, to),
		Amount: amount,
	}
}
