package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/fairshare/internal/amqp"
	"github.com/mmynk/fairshare/internal/models"
	"github.com/mmynk/fairshare/pkg/api"
)

// CreateGroup creates a new group. The creator and any named members are
// created as new people; an existing creator can be named by ID instead.
func (s *LedgerService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"creator_id", req.Msg.CreatorID,
		"members_count", len(req.Msg.MemberNames),
	)

	name, err := normalizeGroupName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}

	creatorID, err := s.resolveCreator(ctx, req.Msg.CreatorID, req.Msg.CreatorName)
	if err != nil {
		slog.Error("CreateGroup failed to resolve creator", "error", err)
		return nil, toConnectError(err)
	}

	group := &models.Group{
		Name:      name,
		CreatorID: creatorID,
		MemberIDs: []string{creatorID},
	}
	for _, memberName := range req.Msg.MemberNames {
		person, err := s.newPerson(ctx, memberName)
		if err != nil {
			return nil, toConnectError(err)
		}
		group.MemberIDs = append(group.MemberIDs, person.ID)
	}

	// Save to storage (generates ID and timestamps)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.MemberIDs))

	apiGroup, err := s.loadAPIGroup(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: apiGroup}), nil
}

// resolveCreator returns the ID of an existing creator, enforcing the per-creator
// group limit, or creates a new person from creatorName.
func (s *LedgerService) resolveCreator(ctx context.Context, creatorID, creatorName string) (string, error) {
	if creatorID == "" {
		person, err := s.newPerson(ctx, creatorName)
		if err != nil {
			return "", err
		}
		return person.ID, nil
	}

	people, err := s.store.GetPeople(ctx, []string{creatorID})
	if err != nil {
		return "", err
	}
	if _, ok := people[creatorID]; !ok {
		return "", fmt.Errorf("creator %s: %w", creatorID, ErrUnknownPerson)
	}

	if s.maxGroupsPerCreator > 0 {
		count, err := s.store.CountGroupsByCreator(ctx, creatorID)
		if err != nil {
			return "", err
		}
		if count >= s.maxGroupsPerCreator {
			return "", fmt.Errorf("creator %s already has %d groups: %w", creatorID, count, ErrGroupLimitReached)
		}
	}
	return creatorID, nil
}

func (s *LedgerService) newPerson(ctx context.Context, name string) (*models.Person, error) {
	name, err := normalizePersonName(name)
	if err != nil {
		return nil, err
	}
	person := &models.Person{Name: name}
	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// loadAPIGroup resolves member names for the wire form of a group.
func (s *LedgerService) loadAPIGroup(ctx context.Context, group *models.Group) (*api.Group, error) {
	people, err := s.store.GetPeople(ctx, group.MemberIDs)
	if err != nil {
		return nil, err
	}
	return groupToAPI(group, people), nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	apiGroup, err := s.loadAPIGroup(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{Group: apiGroup}), nil
}

// ListGroups retrieves all groups, most recently active first.
func (s *LedgerService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	// One lookup for every member across all groups
	var ids []string
	for _, group := range groups {
		ids = append(ids, group.MemberIDs...)
	}
	people, err := s.store.GetPeople(ctx, ids)
	if err != nil {
		slog.Error("ListGroups failed to load members", "error", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = groupToAPI(group, people)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// RenameGroup changes a group's display name.
func (s *LedgerService) RenameGroup(ctx context.Context, req *connect.Request[api.RenameGroupRequest]) (*connect.Response[api.RenameGroupResponse], error) {
	slog.Info("RenameGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name, err := normalizeGroupName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RenameGroup(ctx, req.Msg.GroupID, name); err != nil {
		slog.Error("RenameGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("Failed to fetch renamed group", "error", err)
		return nil, toConnectError(err)
	}
	apiGroup, err := s.loadAPIGroup(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group renamed", "group_id", group.ID)

	return connect.NewResponse(&api.RenameGroupResponse{Group: apiGroup}), nil
}

// DeleteGroup removes a group with all of its expenses and settlements.
func (s *LedgerService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.ledgerChanged(ctx, amqp.NewLedgerEvent(amqp.EventGroupDeleted, req.Msg.GroupID, "", 0))

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember adds an existing person, or a new one by name, to a group.
func (s *LedgerService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received",
		"group_id", req.Msg.GroupID,
		"person_id", req.Msg.PersonID,
		"name", req.Msg.Name,
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	var person *models.Person
	if req.Msg.PersonID != "" {
		people, err := s.store.GetPeople(ctx, []string{req.Msg.PersonID})
		if err != nil {
			return nil, toConnectError(err)
		}
		p, ok := people[req.Msg.PersonID]
		if !ok {
			return nil, toConnectError(fmt.Errorf("person %s: %w", req.Msg.PersonID, ErrUnknownPerson))
		}
		person = p
	} else {
		person, err = s.newPerson(ctx, req.Msg.Name)
		if err != nil {
			return nil, toConnectError(err)
		}
	}

	if err := s.store.AddGroupMember(ctx, group.ID, person.ID); err != nil {
		slog.Error("AddMember failed", "group_id", group.ID, "person_id", person.ID, "error", err)
		return nil, toConnectError(err)
	}
	if !group.HasMember(person.ID) {
		group.MemberIDs = append(group.MemberIDs, person.ID)
	}

	// The roster decides who appears in balances
	if err := s.store.TouchGroup(ctx, group.ID, s.now().Unix()); err != nil {
		slog.Warn("Failed to touch group", "group_id", group.ID, "error", err)
	}
	s.invalidateBalances(ctx, group.ID)

	apiGroup, err := s.loadAPIGroup(ctx, group)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", group.ID, "person_id", person.ID)

	return connect.NewResponse(&api.AddMemberResponse{
		Person: &api.Person{ID: person.ID, Name: person.Name},
		Group:  apiGroup,
	}), nil
}
