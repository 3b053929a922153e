package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/pkg/api"
)

// GroupService manages groups and their membership.
type GroupService struct {
	ledger *ledger.Ledger
	logger *slog.Logger
}

// NewGroupService creates a new GroupService backed by the ledger.
func NewGroupService(l *ledger.Ledger, logger *slog.Logger) *GroupService {
	return &GroupService{ledger: l, logger: logger}
}

func (s *GroupService) Handlers(opts Options) []Route {
	return []Route{
		unary(api.GroupCreateGroupProcedure, s.CreateGroup, opts.Protected),
		unary(api.GroupGetGroupProcedure, s.GetGroup, opts.Protected),
		unary(api.GroupListGroupsProcedure, s.ListGroups, opts.Protected),
		unary(api.GroupSearchGroupsProcedure, s.SearchGroups, opts.Protected),
		unary(api.GroupListMembersProcedure, s.ListMembers, opts.Protected),
		unary(api.GroupAddMemberProcedure, s.AddMember, opts.Protected),
		unary(api.GroupDeleteGroupProcedure, s.DeleteGroup, opts.Protected),
	}
}

// CreateGroup creates a group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *api.CreateGroupRequest) (*api.GroupResponse, error) {
	s.logger.Debug("CreateGroup request received", "name", req.Name, "members_count", len(req.Members))

	g, err := s.ledger.AddGroup(ctx, req.Name, req.Members, middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &api.GroupResponse{Group: toAPIGroup(*g)}, nil
}

func (s *GroupService) GetGroup(ctx context.Context, req *api.IDRequest) (*api.GroupResponse, error) {
	g, err := s.ledger.GetGroup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.GroupResponse{Group: toAPIGroup(*g)}, nil
}

// ListGroups lists the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, _ *api.Empty) (*api.GroupsResponse, error) {
	groups, err := s.ledger.GroupsForUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &api.GroupsResponse{Groups: toAPIGroups(groups)}, nil
}

func (s *GroupService) SearchGroups(ctx context.Context, req *api.SearchRequest) (*api.GroupsResponse, error) {
	groups, err := s.ledger.SearchGroups(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return &api.GroupsResponse{Groups: toAPIGroups(groups)}, nil
}

func (s *GroupService) ListMembers(ctx context.Context, req *api.IDRequest) (*api.UsersResponse, error) {
	users, err := s.ledger.UsersInGroup(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.UsersResponse{Users: toAPIUsers(users)}, nil
}

func (s *GroupService) AddMember(ctx context.Context, req *api.AddMemberRequest) (*api.Empty, error) {
	if err := s.ledger.AddGroupMember(ctx, req.GroupID, req.UserID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, req *api.DeleteGroupRequest) (*api.DeleteGroupResponse, error) {
	policy, ok := ledger.ParseDeletePolicy(req.Policy)
	if !ok {
		return nil, invalidArgument("policy must be orphan or cascade")
	}

	removed, err := s.ledger.DeleteGroup(ctx, req.GroupID, policy)
	if err != nil {
		return nil, err
	}
	return &api.DeleteGroupResponse{RemovedExpenses: removed}, nil
}
