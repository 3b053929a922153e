package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/pkg/api"
)

// UserService serves the user directory and the caller's friend list.
type UserService struct {
	ledger *ledger.Ledger
}

func NewUserService(l *ledger.Ledger) *UserService {
	return &UserService{ledger: l}
}

// Handlers returns the service's routes. Every procedure needs a session.
func (s *UserService) Handlers(opts Options) []Route {
	return []Route{
		unary(api.UserGetUserProcedure, s.GetUser, opts.Protected),
		unary(api.UserListUsersProcedure, s.ListUsers, opts.Protected),
		unary(api.UserSearchUsersProcedure, s.SearchUsers, opts.Protected),
		unary(api.UserAddFriendProcedure, s.AddFriend, opts.Protected),
		unary(api.UserRemoveFriendProcedure, s.RemoveFriend, opts.Protected),
		unary(api.UserListFriendsProcedure, s.ListFriends, opts.Protected),
	}
}

func (s *UserService) GetUser(ctx context.Context, req *api.IDRequest) (*api.UserResponse, error) {
	u, err := s.ledger.GetUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toAPIUser(*u)}, nil
}

func (s *UserService) ListUsers(ctx context.Context, _ *api.Empty) (*api.UsersResponse, error) {
	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &api.UsersResponse{Users: toAPIUsers(users)}, nil
}

func (s *UserService) SearchUsers(ctx context.Context, req *api.SearchRequest) (*api.UsersResponse, error) {
	users, err := s.ledger.SearchUsers(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return &api.UsersResponse{Users: toAPIUsers(users)}, nil
}

// AddFriend adds FriendID to the caller's friends.
func (s *UserService) AddFriend(ctx context.Context, req *api.FriendRequest) (*api.Empty, error) {
	if err := s.ledger.AddFriend(ctx, middleware.GetUserID(ctx), req.FriendID, req.Mutual); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *UserService) RemoveFriend(ctx context.Context, req *api.FriendRequest) (*api.Empty, error) {
	if err := s.ledger.RemoveFriend(ctx, middleware.GetUserID(ctx), req.FriendID, req.Mutual); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}

func (s *UserService) ListFriends(ctx context.Context, _ *api.Empty) (*api.UsersResponse, error) {
	friends, err := s.ledger.Friends(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &api.UsersResponse{Users: toAPIUsers(friends)}, nil
}
