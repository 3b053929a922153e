package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// SettlementService runs settle-all and exposes settled history.
type SettlementService struct {
	ledger *ledger.Ledger
}

func NewSettlementService(l *ledger.Ledger) *SettlementService {
	return &SettlementService{ledger: l}
}

func (s *SettlementService) Handlers(opts Options) []Route {
	return []Route{
		unary(api.SettlementSettleAllProcedure, s.SettleAll, opts.Protected),
		unary(api.SettlementRecordSettledProcedure, s.RecordSettledExpense, opts.Protected),
		unary(api.SettlementListSettledProcedure, s.ListSettledExpenses, opts.Protected),
		unary(api.SettlementDeleteSettledProcedure, s.DeleteSettledExpense, opts.Protected),
	}
}

// SettleAll settles every outstanding expense of the ordered pair. UserID
// defaults to the caller.
func (s *SettlementService) SettleAll(ctx context.Context, req *api.SettleAllRequest) (*api.SettleAllResponse, error) {
	userID, err := pairUser(ctx, req.UserID, req.FriendID)
	if err != nil {
		return nil, err
	}
	res, err := s.ledger.SettleAll(ctx, ledger.SettleRequest{
		UserID:         userID,
		FriendID:       req.FriendID,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}
	return &api.SettleAllResponse{
		SettlementID: res.SettlementID,
		SettledCount: res.SettledCount,
		SettledOn:    res.SettledOn,
		Replayed:     res.Replayed,
	}, nil
}

// RecordSettledExpense appends a single settled record directly.
func (s *SettlementService) RecordSettledExpense(ctx context.Context, req *api.SettledExpense) (*api.IDResponse, error) {
	userID, err := pairUser(ctx, req.UserID, req.FriendID)
	if err != nil {
		return nil, err
	}
	id, err := s.ledger.RecordSettledExpense(ctx, models.SettledExpense{
		UserID:      userID,
		FriendID:    req.FriendID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		return nil, err
	}
	return &api.IDResponse{ID: id}, nil
}

func (s *SettlementService) ListSettledExpenses(ctx context.Context, req *api.PairRequest) (*api.SettledExpensesResponse, error) {
	userID, err := pairUser(ctx, req.UserID, req.FriendID)
	if err != nil {
		return nil, err
	}
	settled, err := s.ledger.SettledExpensesBetween(ctx, userID, req.FriendID)
	if err != nil {
		return nil, err
	}
	return &api.SettledExpensesResponse{Expenses: toAPISettledExpenses(settled)}, nil
}

func (s *SettlementService) DeleteSettledExpense(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	if err := s.ledger.DeleteSettledExpense(ctx, req.ID); err != nil {
		return nil, err
	}
	return &api.Empty{}, nil
}
