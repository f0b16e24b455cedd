package service

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/internal/storage"
)

func TestValidateExpense(t *testing.T) {
	group := &models.Group{ID: "g1", MemberIDs: []string{"a", "b", "c"}}

	tests := []struct {
		name    string
		expense models.Expense
		wantErr error
	}{
		{
			name:    "equal split",
			expense: models.Expense{Amount: 30, PaidByID: "a", SplitBetweenIDs: []string{"a", "b", "c"}},
		},
		{
			name:    "payer outside the split",
			expense: models.Expense{Amount: 30, PaidByID: "c", SplitBetweenIDs: []string{"a", "b"}},
		},
		{
			name: "custom split within a cent",
			expense: models.Expense{Amount: 10, PaidByID: "a", SplitBetweenIDs: []string{"a", "b"},
				CustomSplits: map[string]float64{"a": 5, "b": 4.99}},
		},
		{
			name: "zero custom share",
			expense: models.Expense{Amount: 10, PaidByID: "a", SplitBetweenIDs: []string{"a", "b"},
				CustomSplits: map[string]float64{"a": 10, "b": 0}},
		},
		{
			name:    "custom split off by more than a cent",
			expense: models.Expense{Amount: 10, PaidByID: "a", SplitBetweenIDs: []string{"a", "b"}, CustomSplits: map[string]float64{"a": 5, "b": 4.98}},
			wantErr: ErrCustomSplitTotal,
		},
		{
			name:    "infinite amount",
			expense: models.Expense{Amount: math.Inf(1), PaidByID: "a", SplitBetweenIDs: []string{"a", "b"}},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "payer not a member",
			expense: models.Expense{Amount: 10, PaidByID: "z", SplitBetweenIDs: []string{"a", "b"}},
			wantErr: ErrNotAMember,
		},
		{
			name:    "duplicate participant",
			expense: models.Expense{Amount: 10, PaidByID: "a", SplitBetweenIDs: []string{"a", "b", "a"}},
			wantErr: ErrDuplicateParticipant,
		},
		{
			name:    "impossible date",
			expense: models.Expense{Amount: 10, PaidByID: "a", SplitBetweenIDs: []string{"a", "b"}, Date: "2026-02-30"},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateExpense(group, &tt.expense)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("%v should wrap ErrInvalidArgument", err)
			}
		})
	}
}

func TestNormalizeGroupName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"  Flat 4B ", "Flat 4B", nil},
		{"", "", ErrEmptyGroupName},
		{"\t\n", "", ErrEmptyGroupName},
		{"this group name is definitely longer than fifty chars", "", ErrGroupNameTooLong},
	}

	for _, tt := range tests {
		got, err := normalizeGroupName(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("normalizeGroupName(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("normalizeGroupName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		code connect.Code
	}{
		{ErrTooFewParticipants, connect.CodeInvalidArgument},
		{fmt.Errorf("group g1: %w", storage.ErrNotFound), connect.CodeNotFound},
		{ErrUnknownPerson, connect.CodeNotFound},
		{ErrGroupLimitReached, connect.CodeFailedPrecondition},
		{errors.New("disk full"), connect.CodeInternal},
	}

	for _, tt := range tests {
		if got := connect.CodeOf(toConnectError(tt.err)); got != tt.code {
			t.Errorf("toConnectError(%v) code = %v, want %v", tt.err, got, tt.code)
		}
	}
}
