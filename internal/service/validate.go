package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mmynk/fairshare/internal/calculator"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

// splitTolerance is one cent plus float slack, so 33.33 x 3 matches 100.
const splitTolerance = calculator.Epsilon + 1e-9

// ErrInvalidArgument is wrapped by every request validation error.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrEmptyGroupName       = fmt.Errorf("%w: group name is required", ErrInvalidArgument)
	ErrGroupNameTooLong     = fmt.Errorf("%w: group name must be at most %d characters", ErrInvalidArgument, models.MaxGroupNameLength)
	ErrEmptyPersonName      = fmt.Errorf("%w: person name is required", ErrInvalidArgument)
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be a positive number", ErrInvalidArgument)
	ErrNotAMember           = fmt.Errorf("%w: person is not a member of the group", ErrInvalidArgument)
	ErrTooFewParticipants   = fmt.Errorf("%w: an expense needs at least 2 participants", ErrInvalidArgument)
	ErrDuplicateParticipant = fmt.Errorf("%w: participant listed more than once", ErrInvalidArgument)
	ErrCustomSplitMismatch  = fmt.Errorf("%w: custom splits must cover exactly the participants", ErrInvalidArgument)
	ErrNegativeSplit        = fmt.Errorf("%w: custom split amounts must not be negative", ErrInvalidArgument)
	ErrCustomSplitTotal     = fmt.Errorf("%w: custom splits must add up to the amount", ErrInvalidArgument)
	ErrInvalidDate          = fmt.Errorf("%w: date must be formatted YYYY-MM-DD", ErrInvalidArgument)
	ErrSelfSettlement       = fmt.Errorf("%w: cannot settle with yourself", ErrInvalidArgument)
)

var (
	// ErrGroupLimitReached is returned when a creator already has the maximum number of groups.
	ErrGroupLimitReached = errors.New("group limit reached")

	// ErrUnknownPerson is returned when a request names a person that does not exist.
	ErrUnknownPerson = fmt.Errorf("unknown person: %w", storage.ErrNotFound)
)

// normalizeGroupName trims the name and checks its length in characters.
func normalizeGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyGroupName
	}
	if len([]rune(name)) > models.MaxGroupNameLength {
		return "", ErrGroupNameTooLong
	}
	return name, nil
}

func normalizePersonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyPersonName
	}
	return name, nil
}

func validateAmount(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}

func requireMember(group *models.Group, personID, role string) error {
	if !group.HasMember(personID) {
		return fmt.Errorf("%s %q: %w", role, personID, ErrNotAMember)
	}
	return nil
}

// validateExpense checks an expense against the group it is being added to.
func validateExpense(group *models.Group, expense *models.Expense) error {
	if err := validateAmount(expense.Amount); err != nil {
		return err
	}
	if err := requireMember(group, expense.PaidByID, "payer"); err != nil {
		return err
	}

	if len(expense.SplitBetweenIDs) < 2 {
		return ErrTooFewParticipants
	}
	seen := make(map[string]bool, len(expense.SplitBetweenIDs))
	for _, id := range expense.SplitBetweenIDs {
		if seen[id] {
			return fmt.Errorf("participant %q: %w", id, ErrDuplicateParticipant)
		}
		seen[id] = true
		if err := requireMember(group, id, "participant"); err != nil {
			return err
		}
	}

	if expense.Date != "" {
		if _, err := time.Parse(time.DateOnly, expense.Date); err != nil {
			return ErrInvalidDate
		}
	}

	if len(expense.CustomSplits) == 0 {
		return nil
	}
	if len(expense.CustomSplits) != len(expense.SplitBetweenIDs) {
		return ErrCustomSplitMismatch
	}
	var total float64
	for id, share := range expense.CustomSplits {
		if !seen[id] {
			return fmt.Errorf("split for %q: %w", id, ErrCustomSplitMismatch)
		}
		if share < 0 || math.IsNaN(share) || math.IsInf(share, 0) {
			return fmt.Errorf("split for %q: %w", id, ErrNegativeSplit)
		}
		total += share
	}
	if math.Abs(total-expense.Amount) > splitTolerance {
		return fmt.Errorf("splits total %.2f, amount %.2f: %w", total, expense.Amount, ErrCustomSplitTotal)
	}

	return nil
}

func validateSettlement(group *models.Group, settlement *models.Settlement) error {
	if err := validateAmount(settlement.Amount); err != nil {
		return err
	}
	if settlement.FromID == settlement.ToID {
		return ErrSelfSettlement
	}
	if err := requireMember(group, settlement.FromID, "from"); err != nil {
		return err
	}
	return requireMember(group, settlement.ToID, "to")
}
